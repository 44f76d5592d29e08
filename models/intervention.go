package models

// The fixed set of interventions a case worker can activate for a client.
// Bit i of an intervention bitmask corresponds to InterventionColumns()[i];
// lookups and rankings only ever use combinations drawn from this set.
const NumInterventions = 7

func InterventionColumns() []string {
	return []string{
		"employment_assistance",
		"life_stabilization",
		"retention_services",
		"specialized_services",
		"employment_related_financial_supports",
		"employer_financial_supports",
		"enhanced_referrals",
	}
}

// InterventionNames expands a bitmask into the names of the set bits, in
// canonical order.
func InterventionNames(mask uint8) []string {
	cols := InterventionColumns()
	names := make([]string, 0, NumInterventions)
	for i := 0; i < NumInterventions; i++ {
		if mask&(1<<i) != 0 {
			names = append(names, cols[i])
		}
	}
	return names
}
