//go:build !race

package auth

func passwordHashCost() int {
	// Deliberately expensive to resist offline brute force.
	return 14
}
