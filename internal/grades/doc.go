// Package grades computes subject averages, the overall average and the score
// required on the next evaluation to pass.
//
// Scores carry one decimal on a 0.0–5.0 scale, so all arithmetic runs in
// integer tenths and rounds half-up exactly.
package grades
