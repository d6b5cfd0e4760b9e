package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UID         string `json:"uid" gorm:"uniqueIndex;not null"` // external auth subject
	Username    string `json:"username" gorm:"uniqueIndex;not null"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar" gorm:"default:'/placeholder.svg'"`
	Bio         string `json:"bio" gorm:"type:text"`
	Instagram   string `json:"instagram"`
	Youtube     string `json:"youtube"`
	Role        string `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin

	// TokenBalance is mutated only through the tip transfer path,
	// UploadedVideosCount only through video create/delete. Neither may go
	// negative.
	TokenBalance        int64 `json:"tokenBalance" gorm:"default:0"`
	UploadedVideosCount int64 `json:"uploadedVideosCount" gorm:"default:0"`

	// LikedVideos mirrors Video.Likes: a video id is present here exactly
	// when this user's id is present in that video's Likes array.
	LikedVideos datatypes.JSON `json:"likedVideos"`
	Following   datatypes.JSON `json:"following"`
	Followers   datatypes.JSON `json:"followers"`

	PushTokens          datatypes.JSON `json:"-"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
}

// Custom JSON marshaling to expand the JSON reference arrays
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		LikedVideos []uint `json:"likedVideos"`
		Following   []uint `json:"following"`
		Followers   []uint `json:"followers"`
		*Alias
	}{
		LikedVideos: []uint{},
		Following:   []uint{},
		Followers:   []uint{},
		Alias:       (*Alias)(u),
	}

	if u.LikedVideos != nil {
		var ids []uint
		if err := json.Unmarshal(u.LikedVideos, &ids); err == nil {
			aux.LikedVideos = ids
		}
	}
	if u.Following != nil {
		var ids []uint
		if err := json.Unmarshal(u.Following, &ids); err == nil {
			aux.Following = ids
		}
	}
	if u.Followers != nil {
		var ids []uint
		if err := json.Unmarshal(u.Followers, &ids); err == nil {
			aux.Followers = ids
		}
	}

	return json.Marshal(aux)
}
