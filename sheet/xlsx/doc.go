// Package xlsx writes report sheets to an Office Open XML workbook using
// excelize. A [Workbook] is a [sheet.Book]; each sheet it opens is a
// [sheet.Sink] and a [sheet.Styler].
package xlsx
