package id_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitbutler/but-workspace/internal/id"
)

type widget struct{}

func TestId(t *testing.T) {
	t.Run("parses and prints canonical form", func(t *testing.T) {
		v, err := id.Parse[widget]("7B2B4F9C-1F5B-4A54-9D62-3C8B0D9A1E11")
		require.NoError(t, err)
		require.Equal(t, "7b2b4f9c-1f5b-4a54-9d62-3c8b0d9a1e11", v.String())
		require.False(t, v.IsZero())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := id.Parse[widget]("not-a-uuid")
		require.Error(t, err)
	})

	t.Run("zero value is zero", func(t *testing.T) {
		var v id.Id[widget]
		require.True(t, v.IsZero())
	})

	t.Run("new ids are distinct", func(t *testing.T) {
		require.NotEqual(t, id.New[widget](), id.New[widget]())
	})

	t.Run("encodes as a JSON string", func(t *testing.T) {
		v := id.MustParse[widget]("7b2b4f9c-1f5b-4a54-9d62-3c8b0d9a1e11")
		data, err := json.Marshal(struct {
			ID id.Id[widget] `json:"id"`
		}{ID: v})
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"7b2b4f9c-1f5b-4a54-9d62-3c8b0d9a1e11"}`, string(data))

		var decoded struct {
			ID id.Id[widget] `json:"id"`
		}
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, v, decoded.ID)
	})
}
