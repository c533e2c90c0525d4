package services

import (
	"context"
	"testing"

	"github.com/padelhq/club-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestMemberServiceFindByPhone(t *testing.T) {
	member := &models.Member{
		ID:       7,
		FullName: "Laura Jimenez",
		Phone:    strPtr("+34600111222"),
		Status:   models.MemberStatusActive,
	}
	repo := &fakeMemberRepo{membersByPhone: map[string]*models.Member{
		"+34600111222": member,
	}}
	service := NewMemberService(repo)

	t.Run("known phone", func(t *testing.T) {
		got, err := service.FindByPhone(context.Background(), "+34600111222")
		require.NoError(t, err)
		assert.Equal(t, member, got)
	})

	t.Run("unknown phone", func(t *testing.T) {
		got, err := service.FindByPhone(context.Background(), "+34999999999")
		assert.ErrorIs(t, err, ErrMemberNotFound)
		assert.Nil(t, got)
	})
}

func TestMemberServiceFindCandidates(t *testing.T) {
	candidates := []*models.Member{
		{ID: 2, FullName: "Marco Ruiz", SkillLevel: strPtr("Intermediate")},
		{ID: 5, FullName: "Ana Torres", SkillLevel: strPtr("Intermediate")},
	}
	repo := &fakeMemberRepo{candidates: candidates}
	service := NewMemberService(repo)

	got, err := service.FindCandidates(context.Background(), "Intermediate", 7)
	require.NoError(t, err)
	assert.Equal(t, candidates, got)

	assert.Equal(t, "Intermediate", repo.gotSkillLevel)
	assert.Equal(t, 7, repo.gotExcludeID)
	assert.Equal(t, candidateLimit, repo.gotLimit)
}
