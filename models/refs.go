package models

import (
	"encoding/json"
	"slices"

	"gorm.io/datatypes"
)

// Helpers for the JSON reference-array columns (Video.Likes, Video.Comments,
// User.LikedVideos, ...). A nil column decodes to an empty list.

func DecodeRefs(raw datatypes.JSON) ([]uint, error) {
	if raw == nil {
		return nil, nil
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func EncodeRefs(ids []uint) (datatypes.JSON, error) {
	if ids == nil {
		ids = []uint{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func ContainsRef(raw datatypes.JSON, id uint) bool {
	ids, err := DecodeRefs(raw)
	if err != nil {
		return false
	}
	return slices.Contains(ids, id)
}

// AddRef appends id with set semantics and reports whether it was absent.
func AddRef(raw datatypes.JSON, id uint) (datatypes.JSON, bool, error) {
	ids, err := DecodeRefs(raw)
	if err != nil {
		return raw, false, err
	}
	if slices.Contains(ids, id) {
		return raw, false, nil
	}
	out, err := EncodeRefs(append(ids, id))
	return out, true, err
}

// AppendRef appends id unconditionally, preserving insertion order. Used for
// the ordered Video.Comments sequence, where duplicates are the reconciler's
// problem rather than the writer's.
func AppendRef(raw datatypes.JSON, id uint) (datatypes.JSON, error) {
	ids, err := DecodeRefs(raw)
	if err != nil {
		return raw, err
	}
	return EncodeRefs(append(ids, id))
}

// RemoveRef removes every occurrence of id and reports whether any was found.
func RemoveRef(raw datatypes.JSON, id uint) (datatypes.JSON, bool, error) {
	ids, err := DecodeRefs(raw)
	if err != nil {
		return raw, false, err
	}
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(ids) {
		return raw, false, nil
	}
	out, err := EncodeRefs(kept)
	return out, true, err
}
