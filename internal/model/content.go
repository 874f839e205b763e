package model

// Proficiency is the coarse per-subchapter flag used by the simple
// (non-aggregated) scheduling path.
type Proficiency string

const (
	ProficiencyUnread     Proficiency = "unread"
	ProficiencyRead       Proficiency = "read"
	ProficiencyProficient Proficiency = "proficient"
)

// Content nodes are created by ingestion and are read-only to the planner.

// swagger:model Book
type Book struct {
	UUIDBase
	Name string `gorm:"size:255;not null" json:"name"`
}

func (Book) TableName() string {
	return "books"
}

// swagger:model Chapter
type Chapter struct {
	UUIDBase
	BookID string `gorm:"size:36;index;not null" json:"bookId"`
	Name   string `gorm:"size:255;not null" json:"name"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// swagger:model Subchapter
type Subchapter struct {
	UUIDBase
	ChapterID    string      `gorm:"size:36;index;not null" json:"chapterId"`
	BookID       string      `gorm:"size:36;index" json:"bookId"`
	Name         string      `gorm:"size:255;not null" json:"name"`
	WordCount    int         `gorm:"default:0" json:"wordCount"`
	ConceptCount int         `gorm:"default:0" json:"conceptCount"`
	Proficiency  Proficiency `gorm:"size:20;default:'unread'" json:"proficiency"`
}

func (Subchapter) TableName() string {
	return "subchapters"
}

// BookNode is a book with its chapters attached in display order.
type BookNode struct {
	Book     Book          `json:"book"`
	Chapters []ChapterNode `json:"chapters"`
}

// ChapterNode is a chapter with its subchapters attached in display order.
type ChapterNode struct {
	Chapter     Chapter      `json:"chapter"`
	Subchapters []Subchapter `json:"subchapters"`
}
