package models

// SkillGroup is a titled bucket of skills rendered as one card on the site.
type SkillGroup struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Icon        string  `gorm:"not null" json:"icon"`
	IconBgColor string  `gorm:"not null" json:"iconBgColor"`
	Skills      []Skill `gorm:"foreignKey:GroupID" json:"skills,omitempty"`
}

// Skill belongs to exactly one group.
type Skill struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Color   string `gorm:"not null" json:"color"`
	GroupID uint   `gorm:"not null;index" json:"groupId"`
}
