// Package viz provides the terminal viewer for frame sequence tests.
//
// The program opens on a menu of the library's tests. Selecting one shows
// the actual and predicted frames side by side. Predicted cells are
// coloured by the theme's hit, miss and lost roles against the actual frame.
//
// # Key Bindings
//
//	p      - Play from frame 0
//	Space  - Play/Pause
//	l/h    - Step forward/back, wrapping at either end
//	g/G    - First/last frame
//	t      - Cycle color themes
//	r      - Save the current test as a GIF
//	Esc    - Back to the menu
//	?      - Show help overlay
//
// Playback runs on a [playback.Controller]; its draw callback feeds a
// buffered channel that the program drains, so timer goroutines never
// block on the UI.
package viz
