package elections

// BuildSupportMap aggregates staked assignments into per-winner
// support totals. Every winner gets an entry even when nothing backs
// it, so callers can see zero-support winners directly. Edges pointing
// at accounts outside winners are dropped.
//
// Totals use plain uint64 addition; callers feed stakes that came
// through Solve and NormalizeAssignments, which bound the sum by the
// total issuance and keep it well inside the uint64 range.
func BuildSupportMap(winners []AccountID, staked []StakedAssignment) SupportMap {
	supports := make(SupportMap, len(winners))
	for _, who := range winners {
		supports[who] = &Support{}
	}
	for _, sa := range staked {
		for _, se := range sa.Distribution {
			s, ok := supports[se.Target]
			if !ok {
				continue
			}
			s.Total += se.Weight
			s.Voters = append(s.Voters, StakedEdge{Target: sa.Who, Weight: se.Weight})
		}
	}
	return supports
}
