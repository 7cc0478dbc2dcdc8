package model

// swagger:model Course
type Course struct {
	BaseModel
	Slug        string   `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Price       int64    `gorm:"default:0" json:"price"` // 单位：分，0 表示免费
	IsPublished bool     `gorm:"default:false" json:"isPublished"`
	Lessons     []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Lesson 课程的最小学习单元，按 (section_order, order) 排序
// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID     uint   `gorm:"index;not null" json:"courseId"`
	Title        string `gorm:"size:255;not null" json:"title"`
	Body         string `gorm:"type:text" json:"body"`
	VideoURL     string `gorm:"size:512" json:"videoUrl,omitempty"`
	Section      string `gorm:"size:255" json:"section"`
	SectionOrder int    `gorm:"default:0" json:"sectionOrder"`
	Order        int    `gorm:"column:sort_order;default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
