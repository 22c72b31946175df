package http

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// validateURL checks the URL for potential SSRF vulnerabilities
func (c *Client) validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	// Ensure scheme is http or https
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https are allowed)", parsed.Scheme)
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return fmt.Errorf("URL must have a hostname")
	}

	if isCloudMetadataEndpoint(hostname) {
		return fmt.Errorf("blocked request to cloud metadata endpoint: %s", hostname)
	}

	if scheme == "http" {
		c.logger.Debug("using insecure HTTP connection", "host", hostname)
	}
	if isPrivateOrLoopbackHost(hostname) {
		c.logger.Debug("request targets a private or loopback address", "host", hostname)
	}

	return nil
}

func isPrivateOrLoopbackHost(hostname string) bool {
	if strings.EqualFold(hostname, "localhost") {
		return true
	}
	ip := net.ParseIP(hostname)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

// isCloudMetadataEndpoint checks if the hostname is a cloud metadata service
func isCloudMetadataEndpoint(hostname string) bool {
	metadataHosts := map[string]bool{
		"169.254.169.254":          true, // AWS, GCP, Azure
		"metadata.google.internal": true,
		"metadata.goog":            true,
		"100.100.100.200":          true, // Alibaba Cloud
		"169.254.170.2":            true, // AWS ECS task metadata
	}
	return metadataHosts[strings.ToLower(hostname)]
}
