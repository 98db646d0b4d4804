package storage

import "testing"

func TestParseConnectionString(t *testing.T) {
	cs, err := ParseConnectionString("Endpoint=http://localhost:9000; Region=us-east-1;AccessKeyId=minio;SecretAccessKey=a=b;ForcePathStyle=TRUE;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Endpoint != "http://localhost:9000" || cs.Region != "us-east-1" {
		t.Fatalf("endpoint/region: %+v", cs)
	}
	if cs.AccessKeyID != "minio" || cs.SecretAccessKey != "a=b" {
		t.Fatalf("credentials: %+v", cs)
	}
	if !cs.ForcePathStyle {
		t.Fatalf("expected path style")
	}

	cs, err = ParseConnectionString("")
	if err != nil || cs != (ConnectionString{}) {
		t.Fatalf("empty: %+v %v", cs, err)
	}

	cs, err = ParseConnectionString("inmemory=true")
	if err != nil || !cs.InMemory {
		t.Fatalf("inmemory: %+v %v", cs, err)
	}

	if _, err := ParseConnectionString("Endpoint"); err == nil {
		t.Fatalf("expected error for missing '='")
	}
	if _, err := ParseConnectionString("AccountName=devstoreaccount1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
