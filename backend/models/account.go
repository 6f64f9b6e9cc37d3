package models

import "time"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User is the login account. It is linked to its Student or Teacher profile by email.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;size:16" json:"role"` // student, teacher
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"student_name"`
	Email      string    `gorm:"unique;not null" json:"student_email"`
	RollNo     string    `gorm:"size:50" json:"roll_no"`
	ClassLabel string    `gorm:"size:50" json:"student_class"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Student) TableName() string { return "students" }

type Teacher struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"teacher_name"`
	Email      string    `gorm:"unique;not null" json:"teacher_email"`
	Department string    `json:"dept"`
	Subject    string    `json:"subject"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Teacher) TableName() string { return "teachers" }
