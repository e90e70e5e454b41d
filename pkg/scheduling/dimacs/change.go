package dimacs

// Change is a single edit to the flow graph expressed in DIMACS terms;
// concrete implementations are emitted by flowmanager's GraphChangeManager
// and consumed by ExportIncremental. Grounded on
// coreos-ksched/scheduling/flow/dimacs/change.go.
type Change interface {
	Comment() string
	SetComment(string)
	// GenerateChangeDescription renders a "c ..." comment line, or the
	// empty string when no comment was set.
	GenerateChangeDescription() string
	// GenerateChange renders the DIMACS line(s) for this change.
	GenerateChange() string
}

type commentChange struct{ comment string }

func (cc *commentChange) Comment() string           { return cc.comment }
func (cc *commentChange) SetComment(comment string) { cc.comment = comment }
func (cc *commentChange) GenerateChangeDescription() string {
	if cc.comment == "" {
		return ""
	}
	return "c " + cc.comment + "\n"
}
