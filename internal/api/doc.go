// Package api implements the public JSON HTTP surface of task-app.
//
// Routes split into a public set (signup, login, avatar fetch, health) and a
// protected set behind the bearer-token gate. Handlers read the resolved
// session from the request context; the gate is the only place a token is
// ever inspected.
//
// Status contract: 201 on signup, 200 elsewhere on success, 400 for
// validation and login failures, 401 for anything the gate rejects, 404 for
// missing-or-foreign resources, 409 for email conflicts, 413 for oversize
// avatar uploads.
package api
