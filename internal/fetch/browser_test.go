package fetch

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser(""))
	assert.True(t, ShouldUseBrowser("Sign in to view Ada's full profile"))
	assert.True(t, ShouldUseBrowser("   "+strings.Repeat("a", MinContentLength-1)+"   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("a", MinContentLength)))
}

func TestPlanFor(t *testing.T) {
	linkedin := planFor(SiteLinkedIn)
	assert.Equal(t, 3*time.Second, linkedin.settle)
	assert.Contains(t, linkedin.dismiss, "modal__dismiss")

	wiki := planFor(SiteWikipedia)
	assert.Zero(t, wiki.settle)
	assert.Empty(t, wiki.dismiss)

	assert.NotEmpty(t, planFor(SiteUnknown).dismiss)
	assert.Contains(t, planFor(SiteYouTube).dismiss, "Accept")
}
