package model

// swagger:model Internship
type Internship struct {
	BaseModel
	Slug        string    `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"default:0" json:"price"`
	IsPublished bool      `gorm:"default:false" json:"isPublished"`
	Sections    []Section `gorm:"foreignKey:InternshipID" json:"sections,omitempty"`
}

func (Internship) TableName() string {
	return "internships"
}

type Section struct {
	BaseModel
	InternshipID uint         `gorm:"index;not null" json:"internshipId"`
	Title        string       `gorm:"size:255;not null" json:"title"`
	Order        int          `gorm:"column:sort_order;default:0" json:"order"`
	Subsections  []Subsection `gorm:"foreignKey:SectionID" json:"subsections,omitempty"`
}

func (Section) TableName() string {
	return "internship_sections"
}

type Subsection struct {
	BaseModel
	SectionID uint   `gorm:"index;not null" json:"sectionId"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Order     int    `gorm:"column:sort_order;default:0" json:"order"`
	Tabs      []Tab  `gorm:"foreignKey:SubsectionID" json:"tabs,omitempty"`
}

func (Subsection) TableName() string {
	return "internship_subsections"
}

// Tab 实习的最小学习单元
type Tab struct {
	BaseModel
	SubsectionID uint   `gorm:"index;not null" json:"subsectionId"`
	Title        string `gorm:"size:255;not null" json:"title"`
	Body         string `gorm:"type:text" json:"body"`
	Order        int    `gorm:"column:sort_order;default:0" json:"order"`
}

func (Tab) TableName() string {
	return "internship_tabs"
}
