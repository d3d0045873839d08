package account

import (
	"jobboard/common"

	"github.com/fundwit/go-commons/types"
)

type User struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Name string `json:"name"`
	// Email is unique among non-deleted users.
	Email  string `json:"email" gorm:"index:idx_user_email"`
	Secret string `json:"-"`

	Age     int    `json:"age"`
	Address string `json:"address"`
	Gender  string `json:"gender"`

	RoleID      types.ID `json:"roleId"`
	CompanyID   types.ID `json:"companyId"`
	CompanyName string   `json:"companyName"`

	// RefreshToken is the single outstanding refresh credential. Issuing a
	// new one supersedes the previous session; logout clears it.
	RefreshToken string `json:"-"`

	common.AuditFields
}

type UserInfo struct {
	ID types.ID `json:"id"`

	Name    string `json:"name"`
	Email   string `json:"email"`
	Age     int    `json:"age"`
	Address string `json:"address"`
	Gender  string `json:"gender"`

	RoleID      types.ID `json:"roleId"`
	CompanyID   types.ID `json:"companyId"`
	CompanyName string   `json:"companyName"`

	CreateTime types.Timestamp `json:"createTime"`
}

type UserRegistration struct {
	Name     string `json:"name" binding:"required,lte=64"`
	Email    string `json:"email" binding:"required,email,lte=128"`
	Password string `json:"password" binding:"required,gte=6,lte=64"`

	Age     int    `json:"age" binding:"omitempty,gte=0,lte=150"`
	Address string `json:"address" binding:"omitempty,lte=255"`
	Gender  string `json:"gender" binding:"omitempty,lte=16"`
}

type UserCreation struct {
	UserRegistration

	RoleID      types.ID `json:"roleId" binding:"required"`
	CompanyID   types.ID `json:"companyId"`
	CompanyName string   `json:"companyName" binding:"omitempty,lte=128"`
}

type UserUpdating struct {
	Name    string `json:"name" binding:"required,lte=64"`
	Email   string `json:"email" binding:"required,email,lte=128"`
	Age     int    `json:"age" binding:"omitempty,gte=0,lte=150"`
	Address string `json:"address" binding:"omitempty,lte=255"`
	Gender  string `json:"gender" binding:"omitempty,lte=16"`

	RoleID      types.ID `json:"roleId" binding:"required"`
	CompanyID   types.ID `json:"companyId"`
	CompanyName string   `json:"companyName" binding:"omitempty,lte=128"`
}

func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Email: u.Email, Age: u.Age, Address: u.Address, Gender: u.Gender,
		RoleID: u.RoleID, CompanyID: u.CompanyID, CompanyName: u.CompanyName, CreateTime: u.CreateTime}
}
