package port_test

import (
	"context"
	"time"

	"github.com/beerfactory/hbflow/packet"
	"github.com/beerfactory/hbflow/port"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeOwner string

func (f fakeOwner) Name() string { return string(f) }

var _ = Describe("Connection", func() {
	It("rejects a non-positive capacity", func() {
		_, err := port.NewConnection("c0", 0)
		Expect(err).To(HaveOccurred())

		_, err = port.NewConnection("c1", -3)
		Expect(err).To(HaveOccurred())
	})

	It("links, carries a packet, and unlinks cleanly", func() {
		out := port.NewOutput("out", fakeOwner("A"), "", "")
		in := port.NewInput("in", fakeOwner("B"), "", "")
		c, err := port.NewConnection("c", 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(c.Link(out, in)).To(Succeed())
		Expect(out.Connections()).To(HaveLen(1))
		Expect(in.Connections()).To(HaveLen(1))

		ctx := context.Background()
		p := packet.NewData(42)
		Expect(c.Put(ctx, p)).To(Succeed())

		got, ok, err := c.Get(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(p))

		Expect(c.Unlink()).To(Succeed())
		Expect(out.Connections()).To(BeEmpty())
		Expect(in.Connections()).To(BeEmpty())
	})

	It("refuses Link twice and Unlink twice", func() {
		out := port.NewOutput("out", fakeOwner("A"), "", "")
		in := port.NewInput("in", fakeOwner("B"), "", "")
		c, _ := port.NewConnection("c", 1)
		Expect(c.Link(out, in)).To(Succeed())
		Expect(c.Link(out, in)).To(HaveOccurred())

		Expect(c.Unlink()).To(Succeed())
		Expect(c.Unlink()).To(HaveOccurred())
	})

	It("blocks Put once full, and unblocks on concurrent Get (spec S5 backpressure)", func() {
		out := port.NewOutput("out", fakeOwner("A"), "", "")
		in := port.NewInput("in", fakeOwner("B"), "", "")
		c, _ := port.NewConnection("c", 1)
		Expect(c.Link(out, in)).To(Succeed())

		ctx := context.Background()
		Expect(c.Put(ctx, packet.NewData(1))).To(Succeed())

		done := make(chan struct{})
		go func() {
			defer close(done)
			Expect(c.Put(ctx, packet.NewData(2))).To(Succeed())
		}()

		Consistently(done, 100*time.Millisecond).ShouldNot(BeClosed())

		_, _, err := c.Get(ctx)
		Expect(err).NotTo(HaveOccurred())
		Eventually(done).Should(BeClosed())
	})
})
