// Package pitch wraps the YIN estimator with a confidence and range gate
// and labels voiced frames with the nearest note.
//
// The gate rejects, in order: windows where YIN found no period, estimates
// whose clarity is below the configured minimum, and frequencies outside
// [MinFrequency, MaxFrequency].
package pitch
