package progression

// Step 从当前单元前进一步的结果
type Step struct {
	Next              *Unit `json:"next"`
	SubsectionChanged bool  `json:"subsectionChanged"`
	SectionCompleted  bool  `json:"sectionCompleted"`
	Finished          bool  `json:"finished"`
}

// Advance 按 标签页 → 同小节下一页 → 下一小节首页 → 下一章节首页 → 结束 的顺序前进。
// currentID 不在列表中时返回 false。
func Advance(units []Unit, currentID uint) (Step, bool) {
	sorted := Sort(units)
	idx := -1
	for i, u := range sorted {
		if u.ID == currentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Step{}, false
	}

	if idx == len(sorted)-1 {
		return Step{SubsectionChanged: true, SectionCompleted: true, Finished: true}, true
	}

	cur, next := sorted[idx], sorted[idx+1]
	step := Step{Next: &next}
	if cur.Section() != next.Section() {
		step.SectionCompleted = true
		step.SubsectionChanged = true
	} else if cur.SubsectionID != next.SubsectionID || cur.SubsectionOrder != next.SubsectionOrder {
		step.SubsectionChanged = true
	}
	return step, true
}

// First 遍历起点：第一章第一小节的第一个单元
func First(units []Unit) (Unit, bool) {
	if len(units) == 0 {
		return Unit{}, false
	}
	return Sort(units)[0], true
}
