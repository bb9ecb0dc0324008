package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	authRedis "github.com/frahmantamala/rbac-admin/internal/auth/redis"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	goredis "github.com/redis/go-redis/v9"
)

func TestTokenStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Token Store Suite")
}

var _ = Describe("TokenStore", func() {
	var (
		mr     *miniredis.Miniredis
		client *goredis.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		mr = miniredis.RunT(GinkgoT())
		client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		ctx = context.Background()
		DeferCleanup(client.Close)
	})

	It("reports a revoked jti until its ttl passes", func() {
		store := authRedis.NewTokenStore(client)

		revoked, err := store.IsRevoked(ctx, "jti-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(revoked).To(BeFalse())

		Expect(store.Revoke(ctx, "jti-1", time.Minute)).To(Succeed())
		revoked, err = store.IsRevoked(ctx, "jti-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(revoked).To(BeTrue())

		mr.FastForward(2 * time.Minute)
		revoked, err = store.IsRevoked(ctx, "jti-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(revoked).To(BeFalse())
	})

	It("surfaces connection errors", func() {
		store := authRedis.NewTokenStore(client)
		mr.Close()

		_, err := store.IsRevoked(ctx, "jti-2")
		Expect(err).To(HaveOccurred())
	})
})
