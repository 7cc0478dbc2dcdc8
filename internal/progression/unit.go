// Package progression 根据内容树与完成记录推导学习路径状态。
// 包内均为纯函数，不访问数据库，调用方负责读取与持久化。
package progression

import (
	"sort"
)

// Unit 最小可完成单元（课时或标签页）在排序树中的位置
type Unit struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	SectionID       uint   `json:"sectionId,omitempty"`
	SectionTitle    string `json:"section,omitempty"`
	SectionOrder    int    `json:"sectionOrder"`
	SubsectionID    uint   `json:"subsectionId,omitempty"`
	SubsectionOrder int    `json:"subsectionOrder,omitempty"`
	Order           int    `json:"order"`
}

// SectionKey 课时没有章节实体，按 (章节序号, 章节标题) 归组
type SectionKey struct {
	ID    uint
	Order int
	Title string
}

func (u Unit) Section() SectionKey {
	if u.SectionID != 0 {
		return SectionKey{ID: u.SectionID, Order: u.SectionOrder}
	}
	return SectionKey{Order: u.SectionOrder, Title: u.SectionTitle}
}

func less(a, b Unit) bool {
	if a.SectionOrder != b.SectionOrder {
		return a.SectionOrder < b.SectionOrder
	}
	if a.SubsectionOrder != b.SubsectionOrder {
		return a.SubsectionOrder < b.SubsectionOrder
	}
	return a.Order < b.Order
}

// Sort 返回按 (SectionOrder, SubsectionOrder, Order) 稳定排序的副本，相同键保持输入顺序
func Sort(units []Unit) []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

type SectionGroup struct {
	SectionID uint   `json:"sectionId,omitempty"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	Units     []Unit `json:"units"`
}

// GroupBySection 按排序后的顺序把相邻的同章节单元归为一组
func GroupBySection(units []Unit) []SectionGroup {
	sorted := Sort(units)
	var groups []SectionGroup
	for _, u := range sorted {
		n := len(groups)
		if n > 0 && groups[n-1].Units[0].Section() == u.Section() {
			groups[n-1].Units = append(groups[n-1].Units, u)
			continue
		}
		groups = append(groups, SectionGroup{
			SectionID: u.SectionID,
			Title:     u.SectionTitle,
			Order:     u.SectionOrder,
			Units:     []Unit{u},
		})
	}
	return groups
}
