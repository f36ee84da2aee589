package firestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentText(t *testing.T) {
	doc := Document{
		"product_name": "",
		"productName":  "Pro Plan",
		"status":       "paid",
	}

	assert.Equal(t, "Pro Plan", doc.Text("product_name", "productName"))
	assert.Equal(t, "paid", doc.Text("status"))
	assert.Equal(t, "", doc.Text("missing", "alsoMissing"))
}

func TestDocumentFlagOrAliasing(t *testing.T) {
	doc := Document{"is_free": false, "isFree": true}
	assert.True(t, doc.Flag("is_free", "isFree"),
		"either alias being true makes the flag true")

	doc = Document{"is_free": false, "isFree": false}
	assert.False(t, doc.Flag("is_free", "isFree"))

	doc = Document{}
	assert.False(t, doc.Flag("is_free", "isFree"))
}

func TestDocumentFlagDefault(t *testing.T) {
	assert.True(t, Document{}.FlagDefault(true, "is_active", "isActive"))
	assert.False(t, Document{"is_active": false}.FlagDefault(true, "is_active", "isActive"))
	assert.True(t, Document{"isActive": true}.FlagDefault(false, "is_active", "isActive"))
}

func TestDocumentField(t *testing.T) {
	doc := Document{"total_amount": nil, "totalAmount": 12.5}
	assert.Equal(t, 12.5, doc.Field("total_amount", "totalAmount"))
	assert.Nil(t, doc.Field("missing"))
}

func TestDocumentItems(t *testing.T) {
	doc := Document{"completedVideos": []interface{}{"v1", "v2", "v3"}}

	items, ok := doc.Items("completed_videos", "completedVideos")
	assert.True(t, ok)
	assert.Len(t, items, 3)

	_, ok = Document{"completed_videos": "not-a-list"}.Items("completed_videos")
	assert.False(t, ok)
}

func TestDocumentInt(t *testing.T) {
	assert.Equal(t, 7, Document{"video_count": int64(7)}.Int("video_count", "videoCount"))
	assert.Equal(t, 4, Document{"videoCount": float64(4)}.Int("video_count", "videoCount"))
	assert.Equal(t, 0, Document{}.Int("video_count"))
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "abc", Document{"id": "abc"}.ID())
	assert.Equal(t, "", Document{}.ID())
}
