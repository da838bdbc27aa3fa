package services

import (
	"context"
	"testing"

	"github.com/Rufidatul726/jotter-backend/models"
	"github.com/Rufidatul726/jotter-backend/utils"
)

func TestLockFileHashesSecretAndRedactsPath(t *testing.T) {
	users := newFakeUserRepo()
	nodes := newFakeNodeRepo()
	node := nodes.add(models.FileNode{
		Name:          "secret.pdf",
		Kind:          models.KindFile,
		OwnerID:       1,
		StoragePath:   "files/1/s.pdf",
		ThumbnailPath: "thumbnails/1/s.jpg",
	})
	svc := newTestFileService(users, nodes, newFakeUsageCache())

	out, err := svc.LockFile(context.Background(), 1, node.ID, "hunter2")
	if err != nil {
		t.Fatalf("lock file: %v", err)
	}
	if !out.IsLocked {
		t.Fatalf("expected locked flag set")
	}
	if out.StoragePath != LockedPathSentinel {
		t.Fatalf("expected redacted path %q, got %q", LockedPathSentinel, out.StoragePath)
	}
	if out.ThumbnailPath != "" {
		t.Fatalf("expected thumbnail path hidden, got %q", out.ThumbnailPath)
	}

	stored, _ := nodes.GetByIDAndOwner(context.Background(), nil, node.ID, 1)
	if stored.StoragePath != "files/1/s.pdf" {
		t.Fatalf("redaction must not mutate the stored node, got path %q", stored.StoragePath)
	}
	if stored.LockSecret == "" || stored.LockSecret == "hunter2" {
		t.Fatalf("expected bcrypt hash to be stored, got %q", stored.LockSecret)
	}
	if !utils.CheckPassword("hunter2", stored.LockSecret) {
		t.Fatalf("stored hash does not verify against the secret")
	}
}

func TestLockFileEmptySecretRejected(t *testing.T) {
	users := newFakeUserRepo()
	nodes := newFakeNodeRepo()
	node := nodes.add(models.FileNode{Name: "a.txt", Kind: models.KindFile, OwnerID: 1})
	svc := newTestFileService(users, nodes, newFakeUsageCache())

	_, err := svc.LockFile(context.Background(), 1, node.ID, "")
	assertAppError(t, err, 400)
}

func TestUnlockFileWrongSecretStaysLocked(t *testing.T) {
	users := newFakeUserRepo()
	nodes := newFakeNodeRepo()
	hash, _ := utils.HashPassword("hunter2")
	node := nodes.add(models.FileNode{
		Name:        "secret.pdf",
		Kind:        models.KindFile,
		OwnerID:     1,
		StoragePath: "files/1/s.pdf",
		IsLocked:    true,
		LockSecret:  hash,
	})
	svc := newTestFileService(users, nodes, newFakeUsageCache())

	_, err := svc.UnlockFile(context.Background(), 1, node.ID, "wrong")
	assertAppError(t, err, 401)

	stored, _ := nodes.GetByIDAndOwner(context.Background(), nil, node.ID, 1)
	if !stored.IsLocked || stored.LockSecret == "" {
		t.Fatalf("expected node to remain locked after failed attempt")
	}
}

func TestUnlockFileClearsSecret(t *testing.T) {
	users := newFakeUserRepo()
	nodes := newFakeNodeRepo()
	hash, _ := utils.HashPassword("hunter2")
	node := nodes.add(models.FileNode{
		Name:        "secret.pdf",
		Kind:        models.KindFile,
		OwnerID:     1,
		StoragePath: "files/1/s.pdf",
		IsLocked:    true,
		LockSecret:  hash,
	})
	svc := newTestFileService(users, nodes, newFakeUsageCache())

	out, err := svc.UnlockFile(context.Background(), 1, node.ID, "hunter2")
	if err != nil {
		t.Fatalf("unlock file: %v", err)
	}
	if out.AlreadyUnlocked {
		t.Fatalf("expected a real unlock, not a no-op")
	}
	if out.Node.IsLocked {
		t.Fatalf("expected unlocked node")
	}
	if out.Node.StoragePath != "files/1/s.pdf" {
		t.Fatalf("expected real path after unlock, got %q", out.Node.StoragePath)
	}

	stored, _ := nodes.GetByIDAndOwner(context.Background(), nil, node.ID, 1)
	if stored.IsLocked || stored.LockSecret != "" {
		t.Fatalf("expected lock flag and hash cleared, got %+v", stored)
	}
}

func TestUnlockFileNotLockedIsNoop(t *testing.T) {
	users := newFakeUserRepo()
	nodes := newFakeNodeRepo()
	node := nodes.add(models.FileNode{Name: "a.txt", Kind: models.KindFile, OwnerID: 1, StoragePath: "files/1/a.txt"})
	svc := newTestFileService(users, nodes, newFakeUsageCache())

	out, err := svc.UnlockFile(context.Background(), 1, node.ID, "anything")
	if err != nil {
		t.Fatalf("unlock file: %v", err)
	}
	if !out.AlreadyUnlocked {
		t.Fatalf("expected already-unlocked no-op")
	}
}

func TestRedactNodesHidesLockedOnly(t *testing.T) {
	locked := models.FileNode{ID: 1, Name: "locked.pdf", Kind: models.KindFile, StoragePath: "files/1/l.pdf", IsLocked: true, LockSecret: "hash"}
	plain := models.FileNode{ID: 2, Name: "plain.pdf", Kind: models.KindFile, StoragePath: "files/1/p.pdf"}

	out := redactNodes([]models.FileNode{locked, plain})
	if out[0].StoragePath != LockedPathSentinel {
		t.Fatalf("expected sentinel path for locked node, got %q", out[0].StoragePath)
	}
	if out[1].StoragePath != "files/1/p.pdf" {
		t.Fatalf("expected real path for unlocked node, got %q", out[1].StoragePath)
	}
}
