// Package pagination computes the page-number labels shown under listing
// tables: a window of page numbers with elided runs marked by an ellipsis.
package pagination

import "strconv"

// Ellipsis marks an elided run of page numbers in a generated sequence.
const Ellipsis = -1

// Generate maps (currentPage, totalPages) to the sequence of page numbers and
// ellipsis markers to display. It is a pure function: same inputs, same output.
//
// Both inputs are assumed to satisfy 1 <= currentPage <= totalPages; behavior
// outside that range is undefined (callers clamp before rendering if needed).
func Generate(currentPage, totalPages int) []int {
	// Seven or fewer pages all fit without elision.
	if totalPages <= 7 {
		seq := make([]int, totalPages)
		for i := range seq {
			seq[i] = i + 1
		}
		return seq
	}

	// Within the first three pages: show the leading window plus the last two.
	if currentPage <= 3 {
		return []int{1, 2, 3, Ellipsis, totalPages - 1, totalPages}
	}

	// Within the last three pages: show the first two plus the trailing window.
	if currentPage >= totalPages-2 {
		return []int{1, 2, Ellipsis, totalPages - 2, totalPages - 1, totalPages}
	}

	// Somewhere in the middle: first, elision, the page and its neighbours,
	// elision, last.
	return []int{1, Ellipsis, currentPage - 1, currentPage, currentPage + 1, Ellipsis, totalPages}
}

// Labels renders a generated sequence as display strings, with "..." standing
// in for the ellipsis marker.
func Labels(currentPage, totalPages int) []string {
	seq := Generate(currentPage, totalPages)
	labels := make([]string, len(seq))
	for i, p := range seq {
		if p == Ellipsis {
			labels[i] = "..."
		} else {
			labels[i] = strconv.Itoa(p)
		}
	}
	return labels
}
