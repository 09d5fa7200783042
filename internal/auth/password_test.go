package auth

import (
	"strings"
	"testing"
)

// Cost 4 keeps each hash at microseconds; default cost would make this
// file take seconds.
func testPasswordService() *PasswordService {
	return NewPasswordServiceForTest(4)
}

func TestPasswordHashAndVerify(t *testing.T) {
	svc := testPasswordService()

	hash, err := svc.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := svc.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() right password error = %v", err)
	}
	if err := svc.Verify(hash, "wrong guess"); err == nil {
		t.Error("Verify() accepted a wrong password")
	}
}

func TestPasswordHash_Salted(t *testing.T) {
	svc := testPasswordService()

	a, err := svc.Hash("same input")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	b, err := svc.Hash("same input")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if a == b {
		t.Error("two hashes of the same input are identical; salting is broken")
	}
}

func TestPasswordHash_RejectsOver72Bytes(t *testing.T) {
	svc := testPasswordService()

	if _, err := svc.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("Hash() accepted a password longer than 72 bytes")
	}
	// 72 exactly is still fine.
	if _, err := svc.Hash(strings.Repeat("a", 72)); err != nil {
		t.Errorf("Hash() rejected a 72-byte password: %v", err)
	}
}

func TestPasswordVerify_MalformedHash(t *testing.T) {
	svc := testPasswordService()

	if err := svc.Verify("not-a-bcrypt-hash", "anything"); err == nil {
		t.Error("Verify() accepted a malformed hash")
	}
}
