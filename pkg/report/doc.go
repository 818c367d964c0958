// Package report holds the form state of a technical-inspection report: the
// header fields, the ordered topic selection, the per-topic notes and the
// per-topic image lists. A Record is owned by its caller and mutated only
// through its methods so the selection stays free of duplicates and the
// requester document stays digits-only.
package report
