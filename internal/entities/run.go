package entities

import (
	"encoding/json"
	"time"
)

type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusPartial RunStatus = "partial" // some input files failed
	RunStatusFailed  RunStatus = "failed"
)

type FileStatus string

const (
	FileStatusConverted FileStatus = "converted"
	FileStatusSkipped   FileStatus = "skipped"
	FileStatusFailed    FileStatus = "failed"
)

// FileOutcome describes what happened to a single input file during a run.
type FileOutcome struct {
	Name                 string     `json:"name"`
	Status               FileStatus `json:"status"`
	Error                string     `json:"error,omitempty"`
	Warnings             []string   `json:"warnings,omitempty"`
	Conversations        int        `json:"conversations"`
	ConversationsSkipped int        `json:"conversations_skipped"`
	Messages             int        `json:"messages"`
	Outputs              []string   `json:"outputs,omitempty"`
}

// RunReport is the in-memory result of one batch conversion.
type RunReport struct {
	RunID      string        `json:"run_id"`
	Source     SourceKind    `json:"source"`
	InputDir   string        `json:"input_dir"`
	OutputDir  string        `json:"output_dir"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Files      []FileOutcome `json:"files"`
}

func (r *RunReport) FilesFailed() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == FileStatusFailed {
			n++
		}
	}
	return n
}

func (r *RunReport) TotalConversations() int {
	n := 0
	for _, f := range r.Files {
		n += f.Conversations
	}
	return n
}

func (r *RunReport) TotalMessages() int {
	n := 0
	for _, f := range r.Files {
		n += f.Messages
	}
	return n
}

func (r *RunReport) Status() RunStatus {
	failed := r.FilesFailed()
	switch {
	case failed == 0:
		return RunStatusSuccess
	case failed < len(r.Files):
		return RunStatusPartial
	default:
		return RunStatusFailed
	}
}

// ConversionRun is the persisted ledger row for a RunReport.
type ConversionRun struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RunID         string     `gorm:"uniqueIndex;size:36" json:"run_id"`
	Source        SourceKind `gorm:"index;size:20" json:"source"`
	Status        RunStatus  `gorm:"size:20" json:"status"`
	InputDir      string     `gorm:"size:1024" json:"input_dir"`
	OutputDir     string     `gorm:"size:1024" json:"output_dir"`
	FilesTotal    int        `json:"files_total"`
	FilesFailed   int        `json:"files_failed"`
	Conversations int        `json:"conversations"`
	Messages      int        `json:"messages"`
	Details       string     `gorm:"type:text" json:"details,omitempty"` // JSON-encoded []FileOutcome
	StartedAt     time.Time  `gorm:"index" json:"started_at"`
	FinishedAt    time.Time  `json:"finished_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (ConversionRun) TableName() string {
	return "conversion_runs"
}

func NewConversionRun(report *RunReport) (*ConversionRun, error) {
	details, err := json.Marshal(report.Files)
	if err != nil {
		return nil, err
	}
	return &ConversionRun{
		RunID:         report.RunID,
		Source:        report.Source,
		Status:        report.Status(),
		InputDir:      report.InputDir,
		OutputDir:     report.OutputDir,
		FilesTotal:    len(report.Files),
		FilesFailed:   report.FilesFailed(),
		Conversations: report.TotalConversations(),
		Messages:      report.TotalMessages(),
		Details:       string(details),
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
	}, nil
}
