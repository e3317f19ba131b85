// Package countdown drives a countdown from a confirmed selection to
// completion.
//
// A Picker holds the selection being edited. Once it is non-empty, Start
// turns it into a Countdown: the end instant is fixed as selection + now and
// a ticker.SecondTicker anchored to that instant refreshes the countdown's
// notion of "now" once per second.
//
// # Remaining Time
//
// Remaining seconds are always derived from two instants, never decremented:
//
//	SecondsLeft = floor((End - Now) / 1s)
//
// Now is the second boundary (on End's grid) that the tick fired for, so a
// tick that runs a few milliseconds late still reports the whole second it
// represents. The raw lateness is kept separately in the Snapshot.
//
// # Lifecycle
//
//	IDLE --Start--> RUNNING --SecondsLeft <= 0--> FINISHED
//	                   |
//	                   +--Cancel--> CANCELLED
//
// On FINISHED the ticker is cancelled, a PULSE event is logged (the front end
// turns it into a bell or vibration) and OnFinish observers run. Both
// terminal states close Done.
package countdown
