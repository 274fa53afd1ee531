package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

var testAICfg = config.AnthropicConfig{
	Model:       "claude-haiku-4-5-20251001",
	Temperature: 0.1,
	MaxTokens:   1024,
}

var testBiz = model.Business{
	Name:    "Acme Dental",
	Address: "123 Main St, Austin, TX",
	Website: "https://acmedental.com",
}

func linkCandidates() model.CandidateLinks {
	cl := model.NewCandidateLinks()
	cl[model.CategoryFacebook] = []string{"https://facebook.com/acmedental", "https://facebook.com/acme-fans"}
	cl[model.CategoryContact] = []string{"https://acmedental.com/contact"}
	return cl
}

func TestResolveLinks_PicksFromCandidates(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(textResponse(`{"facebook": "https://facebook.com/acmedental", "twitter": "", "instagram": "", "contact": "https://acmedental.com/contact"}`), nil).Once()

	d := NewDisambiguator(client, testAICfg)
	result := d.ResolveLinks(context.Background(), linkCandidates(), testBiz)

	assert.Equal(t, "https://facebook.com/acmedental", result.Facebook)
	assert.Equal(t, "https://acmedental.com/contact", result.Contact)
	assert.Equal(t, "", result.Twitter)
	client.AssertExpectations(t)
}

func TestResolveLinks_DiscardsFabricatedURL(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"facebook": "https://facebook.com/made-up", "twitter": "", "instagram": "", "contact": ""}`), nil).Once()

	d := NewDisambiguator(client, testAICfg)
	result := d.ResolveLinks(context.Background(), linkCandidates(), testBiz)

	assert.Equal(t, "", result.Facebook)
}

func TestResolveLinks_MarkdownFencedResponse(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("```json\n{\"facebook\": \"https://facebook.com/acmedental\", \"twitter\": \"\", \"instagram\": \"\", \"contact\": \"\"}\n```"), nil).Once()

	d := NewDisambiguator(client, testAICfg)
	result := d.ResolveLinks(context.Background(), linkCandidates(), testBiz)

	assert.Equal(t, "https://facebook.com/acmedental", result.Facebook)
}

func TestResolveLinks_MalformedResponse(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("I could not decide."), nil).Once()

	d := NewDisambiguator(client, testAICfg)
	result := d.ResolveLinks(context.Background(), linkCandidates(), testBiz)

	assert.True(t, result.Empty())
}

func TestResolveLinks_APIError(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, errors.New("overloaded")).Once()

	d := NewDisambiguator(client, testAICfg)
	result := d.ResolveLinks(context.Background(), linkCandidates(), testBiz)

	assert.True(t, result.Empty())
}

func TestResolveEmails_FiltersToCandidates(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"emails": ["info@acmedental.com", "invented@acmedental.com"]}`), nil).Once()

	d := NewDisambiguator(client, testAICfg)
	emails := d.ResolveEmails(context.Background(),
		[]string{"info@acmedental.com", "webmaster@hostingco.com"}, testBiz)

	assert.Equal(t, []string{"info@acmedental.com"}, emails)
}

func TestResolveEmails_NormalizesCase(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"emails": ["Info@AcmeDental.com"]}`), nil).Once()

	d := NewDisambiguator(client, testAICfg)
	emails := d.ResolveEmails(context.Background(), []string{"info@acmedental.com"}, testBiz)

	assert.Equal(t, []string{"info@acmedental.com"}, emails)
}

func TestResolveEmails_MalformedResponse(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("no json here"), nil).Once()

	d := NewDisambiguator(client, testAICfg)
	emails := d.ResolveEmails(context.Background(), []string{"info@acmedental.com"}, testBiz)

	assert.Empty(t, emails)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose wrapped", `Here you go: {"a": 1} hope that helps`, `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}
