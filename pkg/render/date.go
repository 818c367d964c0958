package render

import (
	"fmt"
	"time"
)

var monthNames = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthName returns the Portuguese name of m, or "" when m is out of range.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// LongDate formats t as "5 de março de 2024". The month table is fixed so the
// output never depends on the host locale.
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), MonthName(t.Month()), t.Year())
}
