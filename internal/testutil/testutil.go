// Package testutil 提供基于内存 sqlite 的测试数据库与数据构造函数。
package testutil

import (
	"testing"

	"skillpath_backend/internal/model"
	"skillpath_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB 每次调用返回一个独立且已迁移的内存数据库
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	// 内存库绑定在单个连接上
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedCourse 创建一门课程：第一章两课时，第二章一课时
func SeedCourse(tb testing.TB, db *gorm.DB, slug string, price int64) *model.Course {
	tb.Helper()
	course := &model.Course{
		Slug:        slug,
		Title:       "Course " + slug,
		Price:       price,
		IsPublished: true,
		Lessons: []model.Lesson{
			{Title: "Welcome", Section: "Intro", SectionOrder: 1, Order: 1},
			{Title: "Setup", Section: "Intro", SectionOrder: 1, Order: 2},
			{Title: "Basics", Section: "Core", SectionOrder: 2, Order: 1},
		},
	}
	if err := db.Create(course).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return course
}

// SeedInternship 创建两章的实习：第一章两个小节共三个标签页，第二章一个标签页
func SeedInternship(tb testing.TB, db *gorm.DB, slug string) *model.Internship {
	tb.Helper()
	internship := &model.Internship{
		Slug:        slug,
		Title:       "Internship " + slug,
		IsPublished: true,
		Sections: []model.Section{
			{
				Title: "Onboarding",
				Order: 1,
				Subsections: []model.Subsection{
					{Title: "Tools", Order: 1, Tabs: []model.Tab{
						{Title: "Git", Order: 1},
						{Title: "Editor", Order: 2},
					}},
					{Title: "Process", Order: 2, Tabs: []model.Tab{
						{Title: "Reviews", Order: 1},
					}},
				},
			},
			{
				Title: "Delivery",
				Order: 2,
				Subsections: []model.Subsection{
					{Title: "Ship", Order: 1, Tabs: []model.Tab{
						{Title: "Deploy", Order: 1},
					}},
				},
			},
		},
	}
	if err := db.Create(internship).Error; err != nil {
		tb.Fatalf("seed internship: %v", err)
	}
	return internship
}

// TabIDs 按树的顺序返回全部标签页 ID
func TabIDs(in *model.Internship) []uint {
	var ids []uint
	for _, s := range in.Sections {
		for _, sub := range s.Subsections {
			for _, t := range sub.Tabs {
				ids = append(ids, t.ID)
			}
		}
	}
	return ids
}
