package telemetry

// Stub for local builds - no analysis data ever leaves the machine.
// This provides no-op implementations to satisfy call sites; hosted
// deployments swap in a real client.

type Client struct{}

var GlobalClient *Client = nil

func (c *Client) TrackWithContext(event string, props map[string]interface{}, args ...string) {}
func (c *Client) Track(event string, props map[string]interface{})                            {}
