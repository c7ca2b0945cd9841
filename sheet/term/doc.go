// Package term previews a [sheet.Memory] grid on a terminal as a bordered
// table. Merged regions show their value in the top-left cell only.
package term
