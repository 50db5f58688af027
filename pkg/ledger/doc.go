// Package ledger records which addresses already received a campaign so that
// a rerun of the same campaign skips them.
//
// Two implementations are provided: Memory for a single process and Redis for
// reruns across processes and machines. Each campaign is one Redis set.
//
//	l, err := ledger.Open(ctx, os.Getenv("MAILMERGE_REDIS_URL"), ledger.WithTTL(30*24*time.Hour))
//	if err != nil {
//		return err
//	}
//	defer l.Close()
//
//	if ok, _ := l.Delivered(ctx, campaignID, "alice@example.com"); !ok {
//		// send, then
//		_ = l.MarkDelivered(ctx, campaignID, "alice@example.com")
//	}
//
// Addresses are compared case-insensitively.
package ledger
