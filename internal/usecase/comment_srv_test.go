package usecase

import (
	"context"
	"testing"

	"staynest/internal/data/entity"
	"staynest/internal/dto/request"
	"staynest/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentAdd_OnePerPropertyAndUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	guest := f.addUser("guest", entity.RoleUser)
	p := f.addProperty(host, "Lakeview Cabin", 100)

	got, err := f.svc.Comment.Add(ctx, guest, &request.CreateCommentRequest{Property: p.ID.String(), Text: "Lovely", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "guest", got.Username)

	_, err = f.svc.Comment.Add(ctx, guest, &request.CreateCommentRequest{Property: p.ID.String(), Text: "Changed my mind", Rating: 1})
	requireKind(t, err, utils.KindConflict)
	assert.Contains(t, err.Error(), "you have already commented on this property")

	// another user may still comment
	_, err = f.svc.Comment.Add(ctx, host, &request.CreateCommentRequest{Property: p.ID.String(), Text: "Thanks!", Rating: 4})
	require.NoError(t, err)

	detail, err := f.svc.Property.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.ReviewCount)
	assert.InDelta(t, 4.5, detail.Rating, 0.001)
}

func TestCommentAdd_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	guest := f.addUser("guest", entity.RoleUser)
	p := f.addProperty(host, "Lakeview Cabin", 100)

	_, err := f.svc.Comment.Add(ctx, guest, &request.CreateCommentRequest{Property: p.ID.String(), Text: "ok", Rating: 6})
	requireKind(t, err, utils.KindValidation)

	_, err = f.svc.Comment.Add(ctx, guest, &request.CreateCommentRequest{Property: p.ID.String(), Text: "   ", Rating: 3})
	requireKind(t, err, utils.KindValidation)

	_, err = f.svc.Comment.Add(ctx, guest, &request.CreateCommentRequest{Property: uuid.NewString(), Text: "ok", Rating: 3})
	requireKind(t, err, utils.KindNotFound)
}

func TestCommentDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	guest := f.addUser("guest", entity.RoleUser)
	admin := f.addUser("admin", entity.RoleAdmin)
	p := f.addProperty(host, "Lakeview Cabin", 100)

	first, err := f.svc.Comment.Add(ctx, guest, &request.CreateCommentRequest{Property: p.ID.String(), Text: "Nice", Rating: 4})
	require.NoError(t, err)
	firstID := uuid.MustParse(first.ID)

	err = f.svc.Comment.Delete(ctx, host, firstID)
	requireKind(t, err, utils.KindForbidden)

	require.NoError(t, f.svc.Comment.Delete(ctx, guest, firstID))

	second, err := f.svc.Comment.Add(ctx, guest, &request.CreateCommentRequest{Property: p.ID.String(), Text: "Again", Rating: 3})
	require.NoError(t, err)
	require.NoError(t, f.svc.Comment.Delete(ctx, admin, uuid.MustParse(second.ID)))

	err = f.svc.Comment.Delete(ctx, admin, firstID)
	requireKind(t, err, utils.KindNotFound)

	list, err := f.svc.Comment.ListByProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
