package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// DocumentStatus represents the publishing state of a document
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusInReview  DocumentStatus = "in_review"
	StatusPublished DocumentStatus = "published"
)

// Platform represents the CMS platform a connection publishes to
type Platform string

const (
	PlatformWordPress Platform = "wordpress"
	PlatformGhost     Platform = "ghost"
	PlatformWebflow   Platform = "webflow"
	PlatformMedium    Platform = "medium"
	PlatformDevTo     Platform = "devto"
)

// ViewType represents how a collection is rendered
type ViewType string

const (
	ViewList    ViewType = "list"
	ViewBoard   ViewType = "board"
	ViewGallery ViewType = "gallery"
)

// ReadingStatus represents the triage state of a reading-list item
type ReadingStatus string

const (
	ReadingUnread   ReadingStatus = "unread"
	ReadingArchived ReadingStatus = "archived"
	ReadingFavorite ReadingStatus = "favorite"
)

// SourceType records how a reading-list item was added
type SourceType string

const (
	SourceManual    SourceType = "manual"
	SourceRSS       SourceType = "rss"
	SourceDiscovery SourceType = "discovery"
)

// Placeholder titles assigned to freshly created documents. The editor's
// title inference only fires while a document still carries one of these.
const (
	DefaultPageTitle  = "Untitled Page"
	DefaultDraftTitle = "Untitled Draft"
)

// JSONMap is a flexible key-value map for storing dynamic per-document
// properties across different database backends. It adapts to each database's
// native format: PostgreSQL's JSONB for efficient querying and indexing, and
// SurrealDB's object type for nested document storage.
//
// Everything outside the store layer sees the structured map; the serialized
// form never leaks past Value/Scan.
type JSONMap map[string]any

// Value implements the driver.Valuer interface for database storage
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for database retrieval
func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = make(map[string]any)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		bytes = []byte(value.(string))
	}
	return json.Unmarshal(bytes, j)
}

// StringList is a list of tags stored as serialized JSON text in the
// relational layer. Same boundary rule as JSONMap: callers always get the
// slice, never the serialized text.
type StringList []string

// Value implements the driver.Valuer interface for database storage
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *StringList) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		bytes = []byte(value.(string))
	}
	return json.Unmarshal(bytes, s)
}

// User represents a user account using typed IDs
type User struct {
	ID          UserID         `gorm:"type:uuid;primary_key" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Name        string         `gorm:"not null" json:"name"`
	AvatarColor string         `json:"avatar_color,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID.IsZero() {
		u.ID = NewUserID()
	}
	return nil
}

// Document is the core content unit: a plain markdown-like text body plus
// publishing metadata. ConnectionID and CollectionID are optional references;
// deleting the referenced row clears them rather than leaving them dangling.
type Document struct {
	ID           DocumentID     `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID      UserID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner        *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title        string         `gorm:"not null" json:"title"`
	Content      string         `gorm:"type:text" json:"content"`
	Status       DocumentStatus `gorm:"not null;default:draft" json:"status"`
	ConnectionID *ConnectionID  `gorm:"type:uuid" json:"connection_id,omitempty"`
	CollectionID *CollectionID  `gorm:"type:uuid" json:"collection_id,omitempty"`
	Tags         StringList     `gorm:"type:text" json:"tags,omitempty"`
	Properties   JSONMap        `gorm:"type:text" json:"properties,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID and default title if not set
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID.IsZero() {
		d.ID = NewDocumentID()
	}
	if d.Title == "" {
		d.Title = DefaultPageTitle
	}
	if d.Status == "" {
		d.Status = StatusDraft
	}
	return nil
}

// Collection is a named grouping of documents (the UI presents it as a
// database view with a list/board/gallery layout).
type Collection struct {
	ID          CollectionID   `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     UserID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description,omitempty"`
	ViewType    ViewType       `gorm:"not null;default:list" json:"view_type"`
	Color       string         `json:"color,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID.IsZero() {
		c.ID = NewCollectionID()
	}
	if c.ViewType == "" {
		c.ViewType = ViewList
	}
	return nil
}

// Connection holds the credentials for publishing to an external CMS
type Connection struct {
	ID        ConnectionID   `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   UserID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name      string         `gorm:"not null" json:"name"`
	Platform  Platform       `gorm:"not null" json:"platform"`
	URL       string         `json:"url,omitempty"`
	APIKey    string         `json:"api_key,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ID.IsZero() {
		c.ID = NewConnectionID()
	}
	return nil
}

// ReadingItem is a saved article in the reading list
type ReadingItem struct {
	ID         ReadingItemID  `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID    UserID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	URL        string         `gorm:"not null" json:"url"`
	Title      string         `gorm:"not null" json:"title"`
	Domain     string         `json:"domain,omitempty"`
	Excerpt    string         `gorm:"type:text" json:"excerpt,omitempty"`
	Image      string         `json:"image,omitempty"`
	Tags       StringList     `gorm:"type:text" json:"tags,omitempty"`
	Status     ReadingStatus  `gorm:"not null;default:unread" json:"status"`
	AISummary  string         `gorm:"type:text" json:"ai_summary,omitempty"`
	SourceType SourceType     `gorm:"not null;default:manual" json:"source_type"`
	AddedAt    time.Time      `json:"added_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID and defaults if not set
func (r *ReadingItem) BeforeCreate(tx *gorm.DB) error {
	if r.ID.IsZero() {
		r.ID = NewReadingItemID()
	}
	if r.Status == "" {
		r.Status = ReadingUnread
	}
	if r.SourceType == "" {
		r.SourceType = SourceManual
	}
	if r.AddedAt.IsZero() {
		r.AddedAt = time.Now()
	}
	return nil
}

// Prompt is a saved prompt-library entry
type Prompt struct {
	ID          PromptID       `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     UserID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title       string         `gorm:"not null" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Description string         `json:"description,omitempty"`
	Category    string         `gorm:"not null;default:General" json:"category"`
	Tags        StringList     `gorm:"type:text" json:"tags,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID and default category if not set
func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID.IsZero() {
		p.ID = NewPromptID()
	}
	if p.Category == "" {
		p.Category = "General"
	}
	return nil
}

// Settings holds the per-user toggles for the quick-rewrite menu.
// One row per user, keyed by the user's ID.
type Settings struct {
	UserID       UserID    `gorm:"type:uuid;primary_key" json:"user_id"`
	FixGrammar   bool      `json:"fix_grammar"`
	Shorten      bool      `json:"shorten"`
	Professional bool      `json:"professional"`
	Expand       bool      `json:"expand"`
	Formal       bool      `json:"formal"`
	Casual       bool      `json:"casual"`
	Concise      bool      `json:"concise"`
	Summarize    bool      `json:"summarize"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings a new user starts with: every
// quick-rewrite action enabled.
func DefaultSettings(userID UserID) *Settings {
	return &Settings{
		UserID:       userID,
		FixGrammar:   true,
		Shorten:      true,
		Professional: true,
		Expand:       true,
		Formal:       true,
		Casual:       true,
		Concise:      true,
		Summarize:    true,
	}
}
