package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrString(s string) *string { return &s }
func ptrUint(u uint) *uint       { return &u }

func TestGenerateDescription(t *testing.T) {
	tests := []struct {
		name         string
		notification Notification
		want         string
	}{
		{
			name: "仅actor和verb",
			notification: Notification{
				Verb:      "登录了",
				ActorType: "user",
				ActorID:   1,
			},
			want: "user(1) 登录了",
		},
		{
			name: "带target",
			notification: Notification{
				Verb:       "关注了",
				ActorType:  "user",
				ActorID:    1,
				TargetType: ptrString("user"),
				TargetID:   ptrUint(2),
			},
			want: "user(1) 关注了 user(2)",
		},
		{
			name: "带action_object",
			notification: Notification{
				Verb:             "发布了",
				ActorType:        "user",
				ActorID:          1,
				ActionObjectType: ptrString("post"),
				ActionObjectID:   ptrUint(9),
			},
			want: "user(1) 发布了 post(9)",
		},
		{
			name: "带target和action_object",
			notification: Notification{
				Verb:             "评论了",
				ActorType:        "user",
				ActorID:          1,
				TargetType:       ptrString("post"),
				TargetID:         ptrUint(9),
				ActionObjectType: ptrString("comment"),
				ActionObjectID:   ptrUint(3),
			},
			want: "user(1) 评论了 comment(3) on post(9)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.notification.GenerateDescription())
		})
	}
}

func TestDescriptionText(t *testing.T) {
	notification := Notification{
		Verb:      "登录了",
		ActorType: "user",
		ActorID:   1,
	}
	// 描述为空时回退到自动生成
	assert.Equal(t, "user(1) 登录了", notification.DescriptionText())

	description := "自定义描述"
	notification.Description = &description
	assert.Equal(t, "自定义描述", notification.DescriptionText())
}
