// Package domain holds the User and Task entities with their validation
// rules. Access decisions over these types live in the policy subpackage.
package domain
