package services

import (
	"context"
	"strings"

	"classquiz/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Account struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
}

type StudentSignup struct {
	Account
	RollNo     string `json:"roll_no"`
	ClassLabel string `json:"student_class"`
}

type TeacherSignup struct {
	Account
	Department string `json:"dept"`
	Subject    string `json:"subject"`
}

// Profile is the logged-in account with whichever profile it resolves to.
type Profile struct {
	User    models.User     `json:"user"`
	Student *models.Student `json:"student,omitempty"`
	Teacher *models.Teacher `json:"teacher,omitempty"`
}

func (a *Account) normalize() fieldErrors {
	a.Username = strings.TrimSpace(a.Username)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	return checkStruct(a)
}

func (s *Service) RegisterStudent(ctx context.Context, in StudentSignup) (*models.User, *models.Student, error) {
	if err := in.normalize().err(); err != nil {
		return nil, nil, err
	}

	student := &models.Student{
		Name:       in.Username,
		Email:      in.Email,
		RollNo:     strings.TrimSpace(in.RollNo),
		ClassLabel: strings.TrimSpace(in.ClassLabel),
	}
	user, err := s.register(ctx, in.Account, models.RoleStudent, student)
	if err != nil {
		return nil, nil, err
	}
	return user, student, nil
}

func (s *Service) RegisterTeacher(ctx context.Context, in TeacherSignup) (*models.User, *models.Teacher, error) {
	if err := in.normalize().err(); err != nil {
		return nil, nil, err
	}

	teacher := &models.Teacher{
		Name:       in.Username,
		Email:      in.Email,
		Department: strings.TrimSpace(in.Department),
		Subject:    strings.TrimSpace(in.Subject),
	}
	user, err := s.register(ctx, in.Account, models.RoleTeacher, teacher)
	if err != nil {
		return nil, nil, err
	}
	return user, teacher, nil
}

// register creates the account and its profile row together.
func (s *Service) register(ctx context.Context, acc Account, role string, profile interface{}) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     acc.Username,
		Email:        acc.Email,
		PasswordHash: string(hash),
		Role:         role,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", acc.Username, acc.Email).
			Count(&taken).Error; err != nil {
			return persistence("check account", err)
		}
		if taken > 0 {
			return ErrDuplicateAccount
		}

		if err := tx.Create(user).Error; err != nil {
			return persistence("create user", err)
		}
		if err := tx.Create(profile).Error; err != nil {
			return persistence("create profile", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Printf("registered %s %q (user %d)", role, user.Username, user.ID)
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if notFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, persistence("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *Service) user(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if notFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, persistence("find user", err)
	}
	return &user, nil
}

// StudentFor resolves the logged-in user to its Student row.
func (s *Service) StudentFor(ctx context.Context, userID uint) (*models.Student, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := s.db.WithContext(ctx).Where("email = ?", user.Email).First(&student).Error; err != nil {
		if notFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, persistence("find student", err)
	}
	return &student, nil
}

// TeacherFor resolves the logged-in user to its Teacher row.
func (s *Service) TeacherFor(ctx context.Context, userID uint) (*models.Teacher, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	var teacher models.Teacher
	if err := s.db.WithContext(ctx).Where("email = ?", user.Email).First(&teacher).Error; err != nil {
		if notFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, persistence("find teacher", err)
	}
	return &teacher, nil
}

func (s *Service) Profile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{User: *user}
	switch user.Role {
	case models.RoleTeacher:
		if p.Teacher, err = s.TeacherFor(ctx, userID); err != nil {
			return nil, err
		}
	default:
		if p.Student, err = s.StudentFor(ctx, userID); err != nil {
			return nil, err
		}
	}
	return p, nil
}
