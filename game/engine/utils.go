package engine

// CollisionEvents returns the number of distinct collisions in a report.
// Each collision produces two records.
func CollisionEvents(report *RunReport) int {
	if report == nil {
		return 0
	}
	return len(report.Collisions) / 2
}

// CollidedIDs returns the ids of vehicles that did not survive the run, in
// registration order
func CollidedIDs(report *RunReport) []string {
	if report == nil {
		return nil
	}

	survived := make(map[string]bool, len(report.Survivors))
	for _, v := range report.Survivors {
		survived[v.ID] = true
	}

	var ids []string
	for _, v := range report.Initial {
		if !survived[v.ID] {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

// LongestQueue returns the number of steps a run of these vehicles takes
func LongestQueue(vehicles []VehicleSnapshot) int {
	longest := 0
	for _, v := range vehicles {
		if len(v.Commands) > longest {
			longest = len(v.Commands)
		}
	}
	return longest
}
