package impact

import (
	"sort"

	"dbimpact/internal/entity"
)

// Aggregate groups scored paths by terminal entity and computes per-entity
// and overall worst-case impact.
//
// Grouping is by entity identity, not path identity: several paths can
// converge on the same dependent, which is reported once with its worst
// level. The overall level is the max across entities. Approval is decided
// separately by an ApprovalPolicy, which also sees truncation.
func Aggregate(scored []DependencyPath) ([]EntityImpact, ImpactLevel) {
	byEntity := make(map[entity.EntityRef]*EntityImpact)

	for _, p := range scored {
		key := p.Terminal().Ident()
		agg, ok := byEntity[key]
		if !ok {
			agg = &EntityImpact{
				Entity:               p.Terminal(),
				WorstCaseImpactLevel: ImpactNone,
			}
			byEntity[key] = agg
		}
		agg.Paths = append(agg.Paths, p)
		agg.WorstCaseImpactLevel = MaxImpactLevel(agg.WorstCaseImpactLevel, p.ImpactLevel)
	}

	impacts := make([]EntityImpact, 0, len(byEntity))
	overall := ImpactNone
	for _, agg := range byEntity {
		impacts = append(impacts, *agg)
		overall = MaxImpactLevel(overall, agg.WorstCaseImpactLevel)
	}

	// Worst first, then stable entity key, so output order is reproducible.
	sort.Slice(impacts, func(i, j int) bool {
		ri, rj := impacts[i].WorstCaseImpactLevel.Rank(), impacts[j].WorstCaseImpactLevel.Rank()
		if ri != rj {
			return ri > rj
		}
		return impacts[i].Entity.Key() < impacts[j].Entity.Key()
	})

	return impacts, overall
}
