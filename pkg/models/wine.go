package models

import (
	"strings"
	"time"
)

// WineRecord is one parsed wine listing entry. Every field except Name is
// optional; empty string means "no data", never a placeholder value.
type WineRecord struct {
	Name           string `json:"name" db:"name" validate:"required"`
	Producer       string `json:"producer,omitempty" db:"producer"`
	Country        string `json:"country,omitempty" db:"country"`
	Region         string `json:"region,omitempty" db:"region"`
	GrapeVariety   string `json:"grape_variety,omitempty" db:"grape_variety"`
	Vintage        string `json:"vintage,omitempty" db:"vintage"`
	Price          string `json:"price,omitempty" db:"price"`
	AlcoholContent string `json:"alcohol_content,omitempty" db:"alcohol_content"`
	Description    string `json:"description,omitempty" db:"description"`

	// SourceFile is the originating document identifier. After a merge it
	// becomes a comma-joined list of every contributing source, first-seen
	// order, deduplicated.
	SourceFile string `json:"source_file,omitempty" db:"source_file"`
}

// Sources splits SourceFile into its individual source tokens.
func (w WineRecord) Sources() []string {
	if w.SourceFile == "" {
		return nil
	}
	parts := strings.Split(w.SourceFile, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// OptionalFieldCount counts the non-empty optional fields. Used by the merger
// to break ties when neither record carries Japanese content.
func (w WineRecord) OptionalFieldCount() int {
	n := 0
	for _, f := range []string{
		w.Producer, w.Country, w.Region, w.GrapeVariety,
		w.Vintage, w.Price, w.AlcoholContent, w.Description,
	} {
		if f != "" {
			n++
		}
	}
	return n
}

// WineIdentity is the derived, comparison-ready view of a WineRecord.
// It is a pure function of one record and carries no cross-record state.
type WineIdentity struct {
	NameKeywords     map[string]bool
	ProducerKeywords map[string]bool
	WineTypeTags     map[string]bool
	RegionTags       map[string]bool
	GrapeVariety     string // normalized, "" when absent
	NormalizedName   string
	OriginalName     string
}

// ComparedPair is one similarity computation captured by the dedup debug
// trace. Only pairs scoring above the trace floor are recorded.
type ComparedPair struct {
	RecordAName string  `json:"record_a_name"`
	RecordBName string  `json:"record_b_name"`
	Score       float64 `json:"score"`
	Merged      bool    `json:"merged"`
}

// MergeDecision records how one merge chose its primary record and name.
type MergeDecision struct {
	NameA         string `json:"name_a"`
	NameB         string `json:"name_b"`
	JPScoreA      int    `json:"jp_score_a"`
	JPScoreB      int    `json:"jp_score_b"`
	PrimaryChosen string `json:"primary_chosen"` // "a" or "b"
	FinalName     string `json:"final_name"`
}

// ClusterInfo summarizes one collapsed cluster for the debug surface.
type ClusterInfo struct {
	FinalName     string   `json:"final_name"`
	MergedCount   int      `json:"merged_count"`
	OriginalNames []string `json:"original_names"`
}

// DedupTrace is the call-scoped debug trace of one deduplication pass.
// It is returned alongside the result, never accumulated in shared state.
type DedupTrace struct {
	Comparisons []ComparedPair  `json:"comparisons"`
	Merges      []MergeDecision `json:"merges"`
	Clusters    []ClusterInfo   `json:"clusters"`
}

// StoredWine is a wine library row: a WineRecord plus persistence metadata.
type StoredWine struct {
	ID          string     `json:"id" db:"id"`
	Fingerprint string     `json:"fingerprint" db:"fingerprint"`
	WineRecord
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CreateWineRequest is the request body for adding a wine to the library.
type CreateWineRequest struct {
	Name           string `json:"name" validate:"required"`
	Producer       string `json:"producer,omitempty"`
	Country        string `json:"country,omitempty"`
	Region         string `json:"region,omitempty"`
	GrapeVariety   string `json:"grape_variety,omitempty"`
	Vintage        string `json:"vintage,omitempty"`
	Price          string `json:"price,omitempty"`
	AlcoholContent string `json:"alcohol_content,omitempty"`
	Description    string `json:"description,omitempty"`
	SourceFile     string `json:"source_file,omitempty"`
}

// Record converts the request into a WineRecord.
func (r CreateWineRequest) Record() WineRecord {
	return WineRecord{
		Name:           r.Name,
		Producer:       r.Producer,
		Country:        r.Country,
		Region:         r.Region,
		GrapeVariety:   r.GrapeVariety,
		Vintage:        r.Vintage,
		Price:          r.Price,
		AlcoholContent: r.AlcoholContent,
		Description:    r.Description,
		SourceFile:     r.SourceFile,
	}
}

// DeduplicateRequest is the request body for an ad-hoc deduplication run.
type DeduplicateRequest struct {
	Records   []WineRecord `json:"records" validate:"required,min=1,dive"`
	Threshold float64      `json:"threshold" validate:"gte=0,lte=1.01"`
	Debug     bool         `json:"debug"`
}

// DeduplicateResponse carries the deduplicated list and, when requested,
// the per-call debug trace.
type DeduplicateResponse struct {
	Wines []WineRecord `json:"wines"`
	Trace *DedupTrace  `json:"trace,omitempty"`
}

// ImportRequest is the request body for the text import pipeline. PDF uploads
// use multipart form data instead; Text here is for pre-extracted content.
type ImportRequest struct {
	Text       string  `json:"text" validate:"required"`
	SourceFile string  `json:"source_file" validate:"required"`
	Threshold  float64 `json:"threshold"`
	Debug      bool    `json:"debug"`
}

// ImportResult is the outcome of one import pipeline run.
type ImportResult struct {
	SourceFile string       `json:"source_file"`
	Parsed     int          `json:"parsed"`
	Stored     int          `json:"stored"`
	Wines      []StoredWine `json:"wines"`
	Trace      *DedupTrace  `json:"trace,omitempty"`
}
