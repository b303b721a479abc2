// Package auth provides role based access control for the portal screens.
//
// Authentication itself is the procurement API's business: the login screen
// exchanges credentials for an access token and the portal never sees a
// password hash. This package covers what happens after login:
//
//   - Role name constants for every role the procurement workflow knows
//   - AllowedRoleNames, the allow-list of roles the user admin screen
//     exposes in its picker
//   - RequireRoles, Fiber middleware that renders an access denied panel
//     unless the signed-in identity holds at least one required role
//   - Allowed, the pure role-set intersection behind RequireRoles
//
// A missing or broken session is treated exactly like an identity without a
// matching role: the gate denies, it never errors.
//
// Example usage:
//
//	app.Get("/tender/officers",
//	    auth.RequireRoles("Tender Officers", auth.RoleTenderOfficer, auth.RoleSysAdmin),
//	    handler,
//	)
package auth
