package storage

import (
	"fmt"
	"strings"
)

// ConnectionString holds the parsed Key=Value; pairs of STORAGE_CONNECTION_STRING.
//
//	Endpoint=http://localhost:9000;Region=us-east-1;AccessKeyId=minio;SecretAccessKey=secret;ForcePathStyle=true
//	Path=/var/lib/eztech/blobs
//	InMemory=true
type ConnectionString struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
	Path            string
	InMemory        bool
}

// ParseConnectionString accepts an empty string (all defaults). Keys are case-insensitive.
func ParseConnectionString(s string) (ConnectionString, error) {
	var cs ConnectionString
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return ConnectionString{}, fmt.Errorf("invalid connection string segment %q", part)
		}
		v = strings.TrimSpace(v)
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "endpoint":
			cs.Endpoint = v
		case "region":
			cs.Region = v
		case "accesskeyid":
			cs.AccessKeyID = v
		case "secretaccesskey":
			cs.SecretAccessKey = v
		case "forcepathstyle":
			cs.ForcePathStyle = strings.EqualFold(v, "true")
		case "path":
			cs.Path = v
		case "inmemory":
			cs.InMemory = strings.EqualFold(v, "true")
		default:
			return ConnectionString{}, fmt.Errorf("unknown connection string key %q", k)
		}
	}
	return cs, nil
}
