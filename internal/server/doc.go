// Package server is the browser front end.
//
// Routes
//
//	GET    /                                 page with test selector and surfaces
//	GET    /api/tests                        manifest names and lengths
//	GET    /api/tests/{name}/{role}/{index}  PNG of one frame
//	POST   /api/sessions                     create a session, returns {id}
//	POST   /api/sessions/{id}/select         {"test": name}
//	POST   /api/sessions/{id}/{action}       play, pause, toggle, step, back, first, last
//	GET    /api/sessions/{id}/events         server-sent "frame" events
//	DELETE /api/sessions/{id}                stop playback and end streams
//
// Each session owns a viewer. Its draw callback fans snapshots out to the
// session's event streams through small buffered channels; a slow stream
// drops its oldest snapshot instead of stalling the timer.
package server
