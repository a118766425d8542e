package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Avatar points at an object in the avatar bucket.
type Avatar struct {
	URL string `bson:"url" json:"url"`
	Key string `bson:"key" json:"-"`
}

type User struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Avatar                  Avatar             `bson:"avatar" json:"avatar"`
	Username                string             `bson:"username" json:"username"`
	Email                   string             `bson:"email" json:"email"`
	Role                    string             `bson:"role" json:"role"`
	Password                string             `bson:"password" json:"-"`
	LoginType               string             `bson:"loginType" json:"loginType"`
	IsEmailVerified         bool               `bson:"isEmailVerified" json:"isEmailVerified"`
	RefreshToken            string             `bson:"refreshToken,omitempty" json:"-"`
	ForgotPasswordToken     string             `bson:"forgotPasswordToken,omitempty" json:"-"`
	ForgotPasswordExpiry    *time.Time         `bson:"forgotPasswordExpiry,omitempty" json:"-"`
	EmailVerificationToken  string             `bson:"emailVerificationToken,omitempty" json:"-"`
	EmailVerificationExpiry *time.Time         `bson:"emailVerificationExpiry,omitempty" json:"-"`
	OTP                     string             `bson:"otp,omitempty" json:"-"`
	OTPExpiry               *time.Time         `bson:"otpExpiry,omitempty" json:"-"`
	IsActive                bool               `bson:"isActive" json:"isActive"`
	CreatedAt               time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserRef is the populated form of a user reference.
type UserRef struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Role     string             `bson:"role" json:"role"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
