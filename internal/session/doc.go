// Package session runs the live AR flow for one frame source.
//
// A Session moves through three states:
//
//	Calibrate --BeginDetection--> AutoDetect --Confirm--> Confirmed
//	    ^                                                    |
//	    +----------------------- Reset ----------------------+
//
// Transitions only go forward; Reset is the single way back and is allowed
// from any state. Illegal transitions return ErrInvalidTransition.
//
// # Loops
//
// Run owns one goroutine that drives both loops: every RenderInterval it
// pulls the latest frame, and every DetectEveryN-th tick it runs the
// detection pipeline while the session is in AutoDetect. A manual corner
// drag pauses detection writes for its duration; releasing the corner
// resumes them unless the session is Confirmed.
//
// # Resources
//
// The frame source is opened once at the start of Run and closed on every
// exit path. Failing to open it, failing to initialize the detector, or not
// seeing a first frame within FirstFrameTimeout ends the session with a
// terminal error reported through Status. Missed detections are not errors.
package session
