package progression

import (
	"fmt"
)

// Policy 解锁策略
type Policy int

const (
	// LookaheadOne 课程：已完成的单元，或不超过最后一个已完成单元之后一位的单元可访问
	LookaheadOne Policy = iota
	// StrictSequential 实习：前面所有单元都完成后才可访问
	StrictSequential
)

func (p Policy) String() string {
	switch p {
	case LookaheadOne:
		return "lookahead_one"
	case StrictSequential:
		return "strict_sequential"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

type Options struct {
	Policy Policy
	// Certified 已获得证书时全部解锁
	Certified bool
}

type UnitState struct {
	Unit
	Index     int  `json:"index"`
	Completed bool `json:"completed"`
	Unlocked  bool `json:"unlocked"`
}

type State struct {
	Units          []UnitState `json:"units"`
	Current        *Unit       `json:"current"`
	Next           *Unit       `json:"next"`
	CompletedCount int         `json:"completedCount"`
	AllComplete    bool        `json:"allComplete"`
}

// Evaluate 计算每个单元的解锁状态以及当前/下一个单元。
// completed 中缺失的单元视为未完成。
func Evaluate(units []Unit, completed map[uint]bool, opts Options) State {
	sorted := Sort(units)
	states := make([]UnitState, len(sorted))

	lastCompleted := -1
	for i, u := range sorted {
		if completed[u.ID] {
			lastCompleted = i
		}
	}

	prefixDone := true
	st := State{Units: states}
	for i, u := range sorted {
		done := completed[u.ID]
		var unlocked bool
		switch {
		case opts.Certified:
			unlocked = true
		case opts.Policy == StrictSequential:
			// 只开放已完成的前缀及其后第一个单元，缺口之后的已完成单元也保持锁定
			unlocked = prefixDone
		default:
			unlocked = done || i <= lastCompleted+1
		}
		states[i] = UnitState{Unit: u, Index: i, Completed: done, Unlocked: unlocked}

		if done {
			st.CompletedCount++
		} else {
			prefixDone = false
		}
	}
	st.AllComplete = len(sorted) > 0 && st.CompletedCount == len(sorted)

	for i := range states {
		if states[i].Unlocked && !states[i].Completed {
			cur := states[i].Unit
			st.Current = &cur
			if i+1 < len(states) {
				next := states[i+1].Unit
				st.Next = &next
			}
			break
		}
	}
	return st
}

// Lookup 返回指定单元的状态
func (s State) Lookup(id uint) (UnitState, bool) {
	for _, us := range s.Units {
		if us.ID == id {
			return us, true
		}
	}
	return UnitState{}, false
}

func (s State) IsUnlocked(id uint) bool {
	us, ok := s.Lookup(id)
	return ok && us.Unlocked
}

// SectionComplete 章节内全部单元已完成；不存在的章节返回 false
func (s State) SectionComplete(sectionID uint) bool {
	found := false
	for _, us := range s.Units {
		if us.SectionID != sectionID {
			continue
		}
		found = true
		if !us.Completed {
			return false
		}
	}
	return found
}
