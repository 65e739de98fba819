package hvmodel

import "time"

// Server is a remote SFTP endpoint that harvestd periodically scans for new
// files. Servers are created through the control API and are immutable after
// creation. Credentials live on the row rather than in the pipeline so that
// each server can carry its own login.
type Server struct {
	ID        int       `json:"id"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	URL       string    `json:"url" gorm:"not null"`
	Username  string    `json:"-"`
	Password  string    `json:"-"`
	Files     []File    `json:"files,omitempty" gorm:"foreignKey:ServerID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Server) TableName() string {
	return "servers"
}
