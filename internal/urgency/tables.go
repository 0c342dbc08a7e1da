package urgency

// Standard tier labels.
const (
	LabelThreeAction  = "Three Action"
	LabelDoubleAction = "Double Action"
	LabelAction       = "Action"
	LabelOverdue      = "Overdue"
	LabelDue          = "Due"
	LabelMediumDue    = "Medium Due"
	LabelLatest       = "Latest"
	LabelNew          = "New"
)

// Extended tier labels (the fine-grained month-based variant).
const (
	LabelPO1YDue       = "PO 1Y Due"
	LabelPO8MDue       = "PO 8M Due"
	LabelPO6MDue       = "PO 6M Due"
	LabelPO4MDue       = "PO 4M Due Actions"
	LabelPO3MDue       = "PO 3M Due Action"
	LabelPO1HalfMDue   = "PO 1.5M Due Action Medium"
)

// StandardTable is the default 8-tier table: strictly-greater-than
// day thresholds expressed as greater-or-equal minimums.
//
//	> 180 days: Three Action
//	>  90 days: Double Action
//	>  60 days: Action
//	>  30 days: Overdue
//	21-30 days: Due
//	11-20 days: Medium Due
//	 9-10 days: Latest
//	 <=8 days: New (also catches future-dated orders)
func StandardTable() TierTable {
	return TierTable{
		{Label: LabelThreeAction, MinDays: 181},
		{Label: LabelDoubleAction, MinDays: 91},
		{Label: LabelAction, MinDays: 61},
		{Label: LabelOverdue, MinDays: 31},
		{Label: LabelDue, MinDays: 21},
		{Label: LabelMediumDue, MinDays: 11},
		{Label: LabelLatest, MinDays: 9},
		{Label: LabelNew, MinDays: minAge},
	}
}

// ExtendedTable is the 11-tier month-based variant.
func ExtendedTable() TierTable {
	return TierTable{
		{Label: LabelPO1YDue, MinDays: 366},
		{Label: LabelPO8MDue, MinDays: 241},
		{Label: LabelPO6MDue, MinDays: 181},
		{Label: LabelPO4MDue, MinDays: 121},
		{Label: LabelPO3MDue, MinDays: 91},
		{Label: LabelPO1HalfMDue, MinDays: 46},
		{Label: LabelOverdue, MinDays: 31},
		{Label: LabelDue, MinDays: 21},
		{Label: LabelMediumDue, MinDays: 11},
		{Label: LabelLatest, MinDays: 9},
		{Label: LabelNew, MinDays: minAge},
	}
}

// DefaultCriticalTiers returns the labels that should raise alerts for
// the given table, beyond effective-status Overdue.
func DefaultCriticalTiers(table TierTable) map[string]bool {
	critical := map[string]bool{
		LabelAction:       true,
		LabelDoubleAction: true,
		LabelThreeAction:  true,
		LabelPO1YDue:      true,
		LabelPO8MDue:      true,
		LabelPO6MDue:      true,
		LabelPO4MDue:      true,
		LabelPO3MDue:      true,
		LabelPO1HalfMDue:  true,
	}

	set := make(map[string]bool)
	for _, tier := range table {
		if critical[tier.Label] {
			set[tier.Label] = true
		}
	}
	return set
}
