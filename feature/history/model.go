package history

import "time"

// TableName is the table submissions are stored in.
const TableName = "submissions"

// Submission is one terminal item of a batch.
type Submission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BatchID   string    `gorm:"column:batch_id;size:36;index" json:"batch_id"`
	Title     string    `gorm:"column:title;size:512" json:"title"`
	TorrentID string    `gorm:"column:torrent_id;size:64" json:"torrent_id,omitempty"`
	Status    string    `gorm:"column:status;size:16" json:"status"`
	Reason    string    `gorm:"column:reason;size:1024" json:"reason,omitempty"`
	Mode      string    `gorm:"column:mode;size:16" json:"mode"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName implements gorm's tabler interface.
func (Submission) TableName() string {
	return TableName
}
