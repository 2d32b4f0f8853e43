package session

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestDecodeRejectsUnsupportedSchemaVersion(t *testing.T) {
	_, err := Decode([]byte{99})
	if err == nil || !strings.Contains(err.Error(), "unsupported session schema version") {
		t.Fatalf("expected unsupported schema version error, got %v", err)
	}
}

func TestDecodeRejectsTruncatedAndTrailing(t *testing.T) {
	data, err := Encode(testSession("sid"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, n := range []int{1, 2, 10, len(data) - 1} {
		if _, err := Decode(data[:n]); err == nil {
			t.Fatalf("expected truncated blob of %d bytes to fail", n)
		}
	}
	if _, err := Decode(append(data, 0)); err == nil {
		t.Fatal("expected trailing byte to fail")
	}
}

func TestEncodeRejectsOversizedUserID(t *testing.T) {
	sess := testSession("sid")
	sess.UserID = strings.Repeat("u", 256)
	if _, err := Encode(sess); err == nil {
		t.Fatal("expected oversized user id to fail")
	}
}

func TestGetRejectsForeignSchemaVersion(t *testing.T) {
	store, rdb, _ := newRedisStoreTest(t)
	ctx := context.Background()
	data, err := Encode(testSession("sid-foreign"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	data[0] = CurrentSchemaVersion + 1
	if err := rdb.Set(ctx, store.key("sid-foreign"), data, time.Hour).Err(); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if _, err := store.Get(ctx, "sid-foreign"); err == nil || !strings.Contains(err.Error(), "unsupported session schema version") {
		t.Fatalf("expected unsupported schema version error, got %v", err)
	}
}

func FuzzDecode(f *testing.F) {
	valid, err := Encode(testSession("sid"))
	if err != nil {
		f.Fatal(err)
	}
	f.Add(valid)
	f.Add([]byte{})
	f.Add([]byte{CurrentSchemaVersion})
	f.Add([]byte{CurrentSchemaVersion + 1, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		sess, err := Decode(data)
		if err != nil {
			return
		}
		out, err := Encode(sess)
		if err != nil {
			t.Fatalf("decoded session does not re-encode: %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Fatal("re-encoding changed a current-schema blob")
		}
	})
}
