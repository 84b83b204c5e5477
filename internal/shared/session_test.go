package shared

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionManager(client, "chalani_session", "secret", time.Hour, false), mr
}

func commit(t *testing.T, sm *SessionManager, sess *Session) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rr, httptest.NewRequest(http.MethodGet, "/", nil), sess))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func reload(t *testing.T, sm *SessionManager, cookie *http.Cookie) *Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	return sess
}

func TestSessionRoundTripSealsToken(t *testing.T) {
	sm, mr := newManager(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	require.NoError(t, sess.SetToken("bearer-abc"))
	sess.SetProfile("Sita Sharma", RoleStaff)
	sess.SetLang("ne")
	cookie := commit(t, sm, sess)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	raw, err := mr.Get("chalani:session:" + cookie.Value)
	require.NoError(t, err)
	assert.NotContains(t, raw, "bearer-abc")

	loaded := reload(t, sm, cookie)
	assert.Equal(t, "bearer-abc", loaded.Token())
	assert.Equal(t, RoleStaff, loaded.Role())
	assert.Equal(t, "Sita Sharma", loaded.DisplayName())
	assert.Equal(t, "ne", loaded.Lang())
}

func TestUnknownSessionIDIsNotAdopted(t *testing.T) {
	sm, _ := newManager(t)
	sess := reload(t, sm, &http.Cookie{Name: "chalani_session", Value: "attacker-chosen"})
	assert.NotEqual(t, "attacker-chosen", sess.ID)
}

func TestClearCredentialsKeepsLanguage(t *testing.T) {
	sm, _ := newManager(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NoError(t, sess.SetToken("tok"))
	sess.SetProfile("Ram", RoleAdmin)
	sess.SetUser("4")
	sess.SetLang("ne")

	sess.ClearCredentials()
	assert.Empty(t, sess.Token())
	assert.Empty(t, sess.Role())
	assert.Empty(t, sess.User())
	assert.Equal(t, "ne", sess.Lang())
}

func TestFlashIsPoppedOnce(t *testing.T) {
	sm, _ := newManager(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.AddFlash(FlashMessage{Kind: "success", Message: "saved"})
	cookie := commit(t, sm, sess)

	loaded := reload(t, sm, cookie)
	flash := loaded.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "saved", flash.Message)
	assert.Nil(t, loaded.PopFlash())
	commit(t, sm, loaded)

	assert.Nil(t, reload(t, sm, cookie).PopFlash())
}

func TestDestroyDeletesSessionAndExpiresCookie(t *testing.T) {
	sm, mr := newManager(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookie := commit(t, sm, sess)
	require.True(t, mr.Exists("chalani:session:"+cookie.Value))

	sm.Destroy(sess)
	expired := commit(t, sm, sess)
	assert.Equal(t, -1, expired.MaxAge)
	assert.False(t, mr.Exists("chalani:session:"+cookie.Value))
}

func TestSealerRejectsTampering(t *testing.T) {
	sealer := NewTokenSealer("secret")
	sealed, err := sealer.Seal("token-1")
	require.NoError(t, err)

	plain, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "token-1", plain)

	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = sealer.Open(base64.RawURLEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrTokenUnreadable)

	_, err = NewTokenSealer("other").Open(sealed)
	assert.ErrorIs(t, err, ErrTokenUnreadable)
}

func TestCSRFTokenLifecycle(t *testing.T) {
	sm, _ := newManager(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	csrf := NewCSRFManager("csrf")
	ctx := context.Background()

	token, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	again, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)
	assert.NoError(t, csrf.VerifyToken(ctx, sess, token))
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, token+"x"), ErrCSRFTokenMismatch)

	rotated, err := csrf.RotateToken(ctx, sess)
	require.NoError(t, err)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, token), ErrCSRFTokenMismatch)
	assert.NoError(t, csrf.VerifyToken(ctx, sess, rotated))
}

func TestPaginationLinks(t *testing.T) {
	p := NewPagination(6, 10, 120)
	assert.Equal(t, 12, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, []int{1, 0, 3, 4, 5, 6, 7, 8, 9, 0, 12}, p.Links(7))

	assert.Nil(t, NewPagination(1, 10, 7).Links(7))
	last := NewPagination(3, 10, 25)
	assert.False(t, last.HasNext)
	assert.Equal(t, []int{1, 2, 3}, last.Links(7))
}
