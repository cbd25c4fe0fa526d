package model

import (
	"errors"

	"github.com/zaunist/filebox/backend/common"

	"github.com/burugo/thing"
)

// User represents an account. Sensitive fields like Password are never
// included in API responses.
type User struct {
	thing.BaseModel
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
	Email    string `json:"email" db:"email,unique"`
	Role     int    `json:"role" db:"role"`
	Status   int    `json:"status" db:"status"`
}

func (u *User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds admin (or root) privileges.
func (u *User) IsAdmin() bool {
	return u.Role >= common.RoleAdminUser
}

var UserDB *thing.Thing[*User]

// UserInit 用于在 InitDB 时初始化 UserDB
func UserInit() error {
	var err error
	UserDB, err = thing.Use[*User]()
	if err != nil {
		return err
	}
	return nil
}

// GetUserById 根据ID获取用户
func GetUserById(id int64) (*User, error) {
	if id == 0 {
		return nil, errors.New("empty_id")
	}
	users, err := UserDB.Where("id = ?", id).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrRecordNotFound
	}
	return users[0], nil
}

// ErrPasswordPolicy is returned by every credential-accepting path when the
// plaintext does not satisfy the account password policy.
var ErrPasswordPolicy = errors.New("password_policy_violation")

// Insert hashes the plaintext credential and persists the account. The policy
// check lives here, not only at the API edge, so no caller can store a weaker
// password.
func (user *User) Insert() error {
	if !common.ValidatePasswordPolicy(user.Password) {
		return ErrPasswordPolicy
	}
	hashed, err := common.Password2Hash(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed
	return UserDB.Save(user)
}

// ValidateAndFill checks the plaintext password in user.Password against the
// stored hash for user.Email and fills the struct on success. Unknown email
// and wrong password produce the same error so accounts cannot be enumerated.
func (user *User) ValidateAndFill() error {
	if user.Email == "" || user.Password == "" {
		return errors.New("invalid_email_or_password")
	}
	users, err := UserDB.Where("email = ?", user.Email).Fetch(0, 1)
	if err != nil || len(users) == 0 {
		return errors.New("invalid_email_or_password")
	}
	found := users[0]

	okay := common.ValidatePasswordAndHash(user.Password, found.Password)

	if !okay || found.Status != common.UserStatusEnabled {
		return errors.New("invalid_email_or_password")
	}
	*user = *found
	return nil
}

func IsEmailAlreadyTaken(email string) bool {
	users, err := UserDB.Where("email = ?", email).Fetch(0, 1)
	return err == nil && len(users) > 0
}

func IsUsernameAlreadyTaken(username string) bool {
	users, err := UserDB.Where("username = ?", username).Fetch(0, 1)
	return err == nil && len(users) > 0
}

// ResetUserPasswordByEmail replaces the stored credential. The new password
// goes through the same policy check as registration.
func ResetUserPasswordByEmail(email string, password string) error {
	if email == "" {
		return errors.New("empty_email")
	}
	if !common.ValidatePasswordPolicy(password) {
		return ErrPasswordPolicy
	}
	hashedPassword, err := common.Password2Hash(password)
	if err != nil {
		return err
	}
	users, err := UserDB.Where("email = ?", email).Fetch(0, 1)
	if err != nil || len(users) == 0 {
		return errors.New("user_not_found")
	}
	user := users[0]
	user.Password = hashedPassword
	return UserDB.Save(user)
}

// EnsureRootUser seeds the root admin account on first start. It is a no-op
// when any root user already exists or no admin password is configured.
func EnsureRootUser(username, email, password string) error {
	if password == "" {
		return nil
	}
	if err := common.Validate.Var(email, "required,email"); err != nil {
		return errors.New("invalid admin email: " + email)
	}
	existing, err := UserDB.Where("role = ?", common.RoleRootUser).Fetch(0, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	root := &User{
		Username: username,
		Password: password,
		Email:    email,
		Role:     common.RoleRootUser,
		Status:   common.UserStatusEnabled,
	}
	return root.Insert()
}
