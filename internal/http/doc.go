// Package http provides HTTP handlers and middleware for the agenda API.
//
// The router exposes the following endpoints:
//   - POST /sessions: signs a user in. Body: {"email","password"}. The signed-in
//     user becomes the single current session persisted in the store.
//   - DELETE /sessions/current: signs the current user out. Returns 204.
//   - GET /sessions/current: returns the signed-in user.
//   - POST /users: open registration exchanging the `userDTO` payload defined in
//     user_handler.go; an "admin_code" matching the configured secret creates a
//     privileged account. GET /users, PUT /users/{id}, DELETE /users/{id} are
//     administrator controlled management endpoints.
//   - GET /agenda?week=YYYY-MM-DD: the classified Monday-through-Friday hour grid
//     for the week containing the given date, defaulting to the current week.
//   - POST /bookings, PUT /bookings/{id}, DELETE /bookings/{id}: booking
//     endpoints exchanging the `bookingDTO` payload defined in
//     booking_handler.go. Mutation responses carry the notification status line.
//   - GET /sectors, POST /sectors, PUT /sectors/{id}, DELETE /sectors/{id} and
//     the same shape under /roles: catalog endpoints. Listing is open so the
//     registration form can populate its dropdowns; mutations require admin
//     privileges.
//   - GET /settings, PATCH /settings: application settings; reading is open,
//     patching requires admin privileges.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
