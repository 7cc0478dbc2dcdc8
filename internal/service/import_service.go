package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ContentDocument 一份课程或实习的 YAML 描述，一个文件可包含多份文档
type ContentDocument struct {
	Kind        model.ScopeKind `yaml:"kind"`
	Slug        string          `yaml:"slug"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Price       int64           `yaml:"price"`
	Published   bool            `yaml:"published"`

	Lessons []LessonDoc   `yaml:"lessons"`
	Quiz    []QuestionDoc `yaml:"quiz"`

	Sections  []SectionDoc  `yaml:"sections"`
	FinalExam []QuestionDoc `yaml:"final_exam"`
}

type LessonDoc struct {
	Title        string `yaml:"title"`
	Body         string `yaml:"body"`
	VideoURL     string `yaml:"video_url"`
	Section      string `yaml:"section"`
	SectionOrder int    `yaml:"section_order"`
	Order        int    `yaml:"order"`
}

type SectionDoc struct {
	Title       string          `yaml:"title"`
	Order       int             `yaml:"order"`
	Quiz        []QuestionDoc   `yaml:"quiz"`
	Subsections []SubsectionDoc `yaml:"subsections"`
}

type SubsectionDoc struct {
	Title string   `yaml:"title"`
	Order int      `yaml:"order"`
	Tabs  []TabDoc `yaml:"tabs"`
}

type TabDoc struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Order int    `yaml:"order"`
}

type QuestionDoc struct {
	Prompt  string    `yaml:"prompt"`
	Options []string  `yaml:"options"`
	Answer  yaml.Node `yaml:"answer"`
	Weight  int       `yaml:"weight"`
}

type ImportResult struct {
	Kind      model.ScopeKind `json:"kind"`
	ID        uint            `json:"id"`
	Slug      string          `json:"slug"`
	Units     int             `json:"units"`
	Questions int             `json:"questions"`
}

type ImportService struct {
	Courses     CourseStore
	Internships InternshipStore
	Quizzes     QuizStore
	Content     *ContentService
}

func NewImportService(courses CourseStore, internships InternshipStore, quizzes QuizStore, content *ContentService) *ImportService {
	return &ImportService{
		Courses:     courses,
		Internships: internships,
		Quizzes:     quizzes,
		Content:     content,
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", util.ErrInvalidImport, fmt.Sprintf(format, args...))
}

// Decode 读取全部 YAML 文档并校验
func Decode(r io.Reader) ([]ContentDocument, error) {
	dec := yaml.NewDecoder(r)
	var docs []ContentDocument
	for {
		var doc ContentDocument
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalid("%v", err)
		}
		if err := doc.validate(); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, invalid("no documents")
	}
	return docs, nil
}

func (d *ContentDocument) validate() error {
	if strings.TrimSpace(d.Slug) == "" || strings.TrimSpace(d.Title) == "" {
		return invalid("slug and title are required")
	}
	if d.Price < 0 {
		return invalid("%s: price must not be negative", d.Slug)
	}
	switch d.Kind {
	case model.ScopeCourse:
		if len(d.Sections) > 0 || len(d.FinalExam) > 0 {
			return invalid("%s: courses use lessons and quiz", d.Slug)
		}
	case model.ScopeInternship:
		if len(d.Lessons) > 0 || len(d.Quiz) > 0 {
			return invalid("%s: internships use sections and final_exam", d.Slug)
		}
	default:
		return invalid("%s: unknown kind %q", d.Slug, d.Kind)
	}

	var all [][]QuestionDoc
	all = append(all, d.Quiz, d.FinalExam)
	for _, s := range d.Sections {
		all = append(all, s.Quiz)
	}
	for _, qs := range all {
		for _, q := range qs {
			if strings.TrimSpace(q.Prompt) == "" || q.Answer.Kind != yaml.ScalarNode {
				return invalid("%s: every question needs a prompt and a scalar answer", d.Slug)
			}
		}
	}
	return nil
}

func toQuestions(docs []QuestionDoc) []model.QuizQuestion {
	out := make([]model.QuizQuestion, len(docs))
	for i, q := range docs {
		weight := q.Weight
		if weight <= 0 {
			weight = 1
		}
		out[i] = model.QuizQuestion{
			Prompt:  q.Prompt,
			Options: q.Options,
			Answer:  strings.TrimSpace(q.Answer.Value),
			Weight:  weight,
			Order:   i + 1,
		}
	}
	return out
}

// Import 解析并写入全部文档
func (s *ImportService) Import(ctx context.Context, r io.Reader) ([]ImportResult, error) {
	docs, err := Decode(r)
	if err != nil {
		return nil, err
	}
	results := make([]ImportResult, 0, len(docs))
	for i := range docs {
		res, err := s.importDoc(ctx, &docs[i])
		if err != nil {
			return results, fmt.Errorf("import %s: %w", docs[i].Slug, err)
		}
		results = append(results, *res)
	}
	return results, nil
}

// ImportPath 导入单个文件或目录下全部 .yaml/.yml 文件
func (s *ImportService) ImportPath(ctx context.Context, path string) ([]ImportResult, error) {
	var results []ImportResult
	err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !(strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")) {
			return nil
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := s.Import(ctx, f)
		results = append(results, res...)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		logger.Log.Info("content imported", zap.String("file", p), zap.Int("documents", len(res)))
		return nil
	})
	return results, err
}

func (s *ImportService) importDoc(ctx context.Context, d *ContentDocument) (*ImportResult, error) {
	res := &ImportResult{Kind: d.Kind, Slug: d.Slug}

	switch d.Kind {
	case model.ScopeCourse:
		course := &model.Course{
			Slug:        d.Slug,
			Title:       d.Title,
			Description: d.Description,
			Price:       d.Price,
			IsPublished: d.Published,
		}
		for _, l := range d.Lessons {
			course.Lessons = append(course.Lessons, model.Lesson{
				Title:        l.Title,
				Body:         l.Body,
				VideoURL:     l.VideoURL,
				Section:      l.Section,
				SectionOrder: l.SectionOrder,
				Order:        l.Order,
			})
		}
		if err := s.Courses.Save(ctx, course); err != nil {
			return nil, err
		}
		res.ID = course.ID
		res.Units = len(course.Lessons)

		questions := toQuestions(d.Quiz)
		key := repository.QuizKey{ScopeKind: model.ScopeCourse, ScopeID: course.ID, Kind: model.KindQuiz}
		if err := s.Quizzes.ReplaceQuestions(ctx, key, questions); err != nil {
			return nil, err
		}
		res.Questions = len(questions)

	case model.ScopeInternship:
		internship := &model.Internship{
			Slug:        d.Slug,
			Title:       d.Title,
			Description: d.Description,
			Price:       d.Price,
			IsPublished: d.Published,
		}
		for _, sd := range d.Sections {
			sec := model.Section{Title: sd.Title, Order: sd.Order}
			for _, subd := range sd.Subsections {
				sub := model.Subsection{Title: subd.Title, Order: subd.Order}
				for _, td := range subd.Tabs {
					sub.Tabs = append(sub.Tabs, model.Tab{Title: td.Title, Body: td.Body, Order: td.Order})
					res.Units++
				}
				sec.Subsections = append(sec.Subsections, sub)
			}
			internship.Sections = append(internship.Sections, sec)
		}
		if err := s.Internships.Save(ctx, internship); err != nil {
			return nil, err
		}
		res.ID = internship.ID

		for i, sd := range d.Sections {
			if len(sd.Quiz) == 0 {
				continue
			}
			questions := toQuestions(sd.Quiz)
			key := repository.QuizKey{
				ScopeKind: model.ScopeInternship,
				ScopeID:   internship.ID,
				Kind:      model.KindSectionQuiz,
				SectionID: internship.Sections[i].ID,
			}
			if err := s.Quizzes.ReplaceQuestions(ctx, key, questions); err != nil {
				return nil, err
			}
			res.Questions += len(questions)
		}

		questions := toQuestions(d.FinalExam)
		key := repository.QuizKey{ScopeKind: model.ScopeInternship, ScopeID: internship.ID, Kind: model.KindFinalExam}
		if err := s.Quizzes.ReplaceQuestions(ctx, key, questions); err != nil {
			return nil, err
		}
		res.Questions += len(questions)
	}

	s.Content.Invalidate(ctx, d.Kind, res.ID)
	return res, nil
}
