package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/result-magic-api/internal/models"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

func newDispatchServiceForTest(t *testing.T) (*DispatchService, *fakeDispatchRepo) {
	t.Helper()
	set := classOfThree(t)
	set.Students[2].ParentDetails.PhoneNumber = ""
	set.Students[1].ParentDetails.Email = ""
	repo := &fakeDispatchRepo{}
	sets := NewScoreEntryService(newFakeResultSetRepo(set), nil, nil, nil)
	return NewDispatchService(sets, repo, NewMetricsService(), "", nil, nil), repo
}

func TestDispatchWhatsAppLinks(t *testing.T) {
	svc, repo := newDispatchServiceForTest(t)

	result, err := svc.Dispatch(context.Background(), adminClaims("school-1"), DispatchRequest{
		ResultSetID: "rs-1",
		StudentIDs:  []string{"student-A1", "student-A3", "ghost"},
		Method:      models.DispatchWhatsApp,
	})
	require.NoError(t, err)

	require.Len(t, result.Successful, 1)
	target := result.Successful[0]
	assert.Equal(t, "2348012345678", target.Recipient)
	assert.True(t, strings.HasPrefix(target.Link, "https://wa.me/2348012345678?text=Hello%20Parent%20of%20Ada"), target.Link)
	assert.NotContains(t, target.Link, "+")

	text, err := url.QueryUnescape(strings.SplitN(target.Link, "text=", 2)[1])
	require.NoError(t, err)
	assert.Contains(t, text, "Overall Average: 75%")
	assert.Contains(t, text, "• Math: 86%")
	assert.True(t, strings.HasSuffix(text, DefaultDispatchSignature))

	require.Len(t, result.Failed, 2)
	assert.Equal(t, "No whatsapp contact available", result.Failed[0].Reason)
	assert.Equal(t, "Chi", result.Failed[0].StudentName)
	assert.Equal(t, "student not found in result set", result.Failed[1].Reason)

	require.Len(t, repo.records, 1)
	record := repo.records[0]
	assert.Equal(t, result.RecordID, record.ID)
	assert.Equal(t, "school-1", record.SchoolID)
	assert.Equal(t, "Head Admin", record.DispatchedBy)
	assert.Len(t, record.Successful, 1)
	assert.Len(t, record.Failed, 2)
}

func TestDispatchEmailLinksUseCustomMessage(t *testing.T) {
	svc, repo := newDispatchServiceForTest(t)

	result, err := svc.Preview(context.Background(), adminClaims("school-1"), DispatchRequest{
		ResultSetID:   "rs-1",
		StudentIDs:    []string{"student-A1", "student-A2"},
		Method:        models.DispatchEmail,
		CustomMessage: "<b>Well done</b> Ada",
	})
	require.NoError(t, err)

	require.Len(t, result.Successful, 1)
	assert.Equal(t, "ada@parents.test", result.Successful[0].Recipient)
	assert.Equal(t,
		"mailto:ada@parents.test?subject=JSS%201%20-%20First%20Term%20Results%20for%20Ada&body=Well%20done%20Ada",
		result.Successful[0].Link)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "No email contact available", result.Failed[0].Reason)
	assert.Empty(t, repo.records)
}

func TestDispatchValidationAndAccess(t *testing.T) {
	svc, _ := newDispatchServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, adminClaims("school-1"), DispatchRequest{ResultSetID: "rs-1", Method: models.DispatchEmail})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Dispatch(ctx, adminClaims("school-1"), DispatchRequest{ResultSetID: "rs-1", StudentIDs: []string{"student-A1"}, Method: "sms"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Dispatch(ctx, teacherClaims("school-1", "JSS 2"), DispatchRequest{ResultSetID: "rs-1", StudentIDs: []string{"student-A1"}, Method: models.DispatchEmail})
	assert.Equal(t, appErrors.ErrClassAccess.Code, appErrors.FromError(err).Code)
}

func TestDispatchHistory(t *testing.T) {
	svc, _ := newDispatchServiceForTest(t)
	ctx := context.Background()

	records, err := svc.History(ctx, adminClaims("school-1"), 10)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	_, err = svc.Dispatch(ctx, adminClaims("school-1"), DispatchRequest{ResultSetID: "rs-1", StudentIDs: []string{"student-A1"}, Method: models.DispatchEmail})
	require.NoError(t, err)

	records, err = svc.History(ctx, adminClaims("school-1"), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.DispatchEmail, records[0].Method)

	records, err = svc.History(ctx, adminClaims("school-2"), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "a%20b%26c%3Dd", encodeURIComponent("a b&c=d"))
}
