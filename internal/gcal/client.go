package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// calendarID "primary" targets the user's default calendar.
const calendarID = "primary"

// calendarAPI is the slice of Google Calendar the sync engine needs.
// Narrow on purpose: the engine stays testable with a mock, the
// GoogleClient stays the only place that knows the wire types.
type calendarAPI interface {
	InsertEvent(ctx context.Context, token *oauth2.Token, event *Event) (googleEventID string, err error)
	DeleteEvent(ctx context.Context, token *oauth2.Token, googleEventID string) error
	GetEventSummary(ctx context.Context, token *oauth2.Token, googleEventID string) (summary, colorID string, err error)
	PatchEventSummary(ctx context.Context, token *oauth2.Token, googleEventID, summary, colorID string) error
}

type GoogleClient struct {
	oauthCfg *oauth2.Config
}

func NewGoogleClient(clientID, clientSecret, redirectURI string) *GoogleClient {
	return &GoogleClient{
		oauthCfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes: []string{
				calendar.CalendarEventsScope,
				oauth2api.UserinfoEmailScope,
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthURL builds the consent page URL. Offline access with forced
// consent, otherwise Google omits the refresh token on re-connects.
func (c *GoogleClient) AuthURL(state string) string {
	return c.oauthCfg.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode trades the OAuth authorization code for tokens and
// resolves the linked account's email address.
func (c *GoogleClient) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, string, error) {
	token, err := c.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("exchange code: %w", err)
	}

	oauth2Service, err := oauth2api.NewService(
		ctx,
		option.WithTokenSource(c.tokenSource(ctx, token)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("create oauth2 service: %w", err)
	}

	userInfo, err := oauth2Service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, "", fmt.Errorf("get user info: %w", err)
	}

	return token, userInfo.Email, nil
}

func (c *GoogleClient) InsertEvent(ctx context.Context, token *oauth2.Token, event *Event) (_ string, err error) {
	service, err := c.calendarService(ctx, token)
	if err != nil {
		return "", err
	}

	created, err := service.Events.
		Insert(calendarID, &calendar.Event{
			Summary:     event.Title,
			Description: event.Description,
			ColorId:     event.ColorID,
			Start: &calendar.EventDateTime{
				DateTime: event.Start.Format(time.RFC3339),
				TimeZone: event.TimeZone,
			},
			End: &calendar.EventDateTime{
				DateTime: event.End.Format(time.RFC3339),
				TimeZone: event.TimeZone,
			},
		}).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}

	return created.Id, nil
}

func (c *GoogleClient) DeleteEvent(ctx context.Context, token *oauth2.Token, googleEventID string) error {
	service, err := c.calendarService(ctx, token)
	if err != nil {
		return err
	}

	err = service.Events.
		Delete(calendarID, googleEventID).
		Context(ctx).
		Do()
	if isGoneErr(err) {
		// already deleted remotely, nothing to mirror
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete event %s: %w", googleEventID, err)
	}
	return nil
}

func (c *GoogleClient) GetEventSummary(ctx context.Context, token *oauth2.Token, googleEventID string) (string, string, error) {
	service, err := c.calendarService(ctx, token)
	if err != nil {
		return "", "", err
	}

	event, err := service.Events.
		Get(calendarID, googleEventID).
		Context(ctx).
		Do()
	if err != nil {
		return "", "", fmt.Errorf("get event %s: %w", googleEventID, err)
	}

	return event.Summary, event.ColorId, nil
}

func (c *GoogleClient) PatchEventSummary(ctx context.Context, token *oauth2.Token, googleEventID, summary, colorID string) error {
	service, err := c.calendarService(ctx, token)
	if err != nil {
		return err
	}

	patch := &calendar.Event{
		Summary: summary,
		ColorId: colorID,
	}
	if colorID == "" {
		// force the field onto the wire, an omitted color id would
		// leave the old color in place instead of resetting it
		patch.ForceSendFields = append(patch.ForceSendFields, "ColorId")
	}

	_, err = service.Events.
		Patch(calendarID, googleEventID, patch).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("patch event %s: %w", googleEventID, err)
	}
	return nil
}

func (c *GoogleClient) calendarService(ctx context.Context, token *oauth2.Token) (*calendar.Service, error) {
	service, err := calendar.NewService(
		ctx,
		option.WithTokenSource(c.tokenSource(ctx, token)),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return service, nil
}

func (c *GoogleClient) tokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	return c.oauthCfg.TokenSource(ctx, token)
}

// IsAuthError reports whether the remote call failed because the
// credential is no longer accepted.
func IsAuthError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden
	}
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr)
}

func isGoneErr(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}
