package model

// Base 基础模型
type Base struct {
	ID uint `gorm:"primaryKey" json:"id"`
}
