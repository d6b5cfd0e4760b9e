package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

type Video struct {
	gorm.Model
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	URL         string `json:"url" gorm:"not null"` // storage reference, opaque to callers
	Thumbnail   string `json:"thumbnail" gorm:"default:'/placeholder.svg'"`

	UserID uint `json:"userID" gorm:"not null;index"` // owner, immutable after creation
	User   User `json:"-" gorm:"foreignKey:UserID;references:ID"`

	// Likes holds the ids of users who currently like this video (set
	// semantics, mirrored by User.LikedVideos). Comments holds the ids of
	// this video's comments in insertion order.
	Likes    datatypes.JSON `json:"likes"`
	Comments datatypes.JSON `json:"comments"`

	// Monotonic interaction counters, incremented once per recorded
	// view/share. Distinct from the like toggle above.
	Views  int64 `json:"views" gorm:"default:0"`
	Shares int64 `json:"shares" gorm:"default:0"`

	Privacy string `json:"privacy" gorm:"type:varchar(10);default:public;index"`
}

func (v *Video) MarshalJSON() ([]byte, error) {
	type Alias Video
	aux := &struct {
		Likes        []uint `json:"likes"`
		Comments     []uint `json:"comments"`
		LikeCount    int    `json:"likeCount"`
		CommentCount int    `json:"commentCount"`
		*Alias
	}{
		Likes:    []uint{},
		Comments: []uint{},
		Alias:    (*Alias)(v),
	}

	if v.Likes != nil {
		var ids []uint
		if err := json.Unmarshal(v.Likes, &ids); err == nil {
			aux.Likes = ids
		}
	}
	if v.Comments != nil {
		var ids []uint
		if err := json.Unmarshal(v.Comments, &ids); err == nil {
			aux.Comments = ids
		}
	}
	aux.LikeCount = len(aux.Likes)
	aux.CommentCount = len(aux.Comments)

	return json.Marshal(aux)
}
