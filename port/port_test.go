package port_test

import (
	"context"
	"time"

	"github.com/beerfactory/hbflow/packet"
	"github.com/beerfactory/hbflow/port"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("InputPort.ReadPacket", func() {
	It("blocks on a port with no connections until one is linked", func() {
		in := port.NewInput("in", fakeOwner("B"), "", "")

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		result := make(chan *packet.Packet, 1)
		go func() {
			p, ok, err := in.ReadPacket(ctx)
			if err == nil && ok {
				result <- p
			}
		}()

		time.Sleep(50 * time.Millisecond)
		Consistently(result, 100*time.Millisecond).ShouldNot(Receive())

		out := port.NewOutput("out", fakeOwner("A"), "", "")
		c, _ := port.NewConnection("c", 1)
		Expect(c.Link(out, in)).To(Succeed())
		sent := packet.NewData("hi")
		Expect(c.Put(ctx, sent)).To(Succeed())

		Eventually(result).Should(Receive(BeIdenticalTo(sent)))
	})

	It("returns the first packet ready across several linked connections (S6)", func() {
		in := port.NewInput("in", fakeOwner("B"), "", "")
		out1 := port.NewOutput("o1", fakeOwner("A1"), "", "")
		out2 := port.NewOutput("o2", fakeOwner("A2"), "", "")
		c1, _ := port.NewConnection("c1", 1)
		c2, _ := port.NewConnection("c2", 1)
		Expect(c1.Link(out1, in)).To(Succeed())
		Expect(c2.Link(out2, in)).To(Succeed())

		ctx := context.Background()
		p2 := packet.NewData("from-two")
		Expect(c2.Put(ctx, p2)).To(Succeed())

		got, ok, err := in.ReadPacket(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(p2))
	})
})

var _ = Describe("OutputPort.SendPacket", func() {
	It("is a silent no-op with no linked connections", func() {
		out := port.NewOutput("out", fakeOwner("A"), "", "")
		Expect(out.SendPacket(context.Background(), packet.NewData(1))).To(Succeed())
	})

	It("fans the same packet out to every linked connection", func() {
		out := port.NewOutput("out", fakeOwner("A"), "", "")
		in1 := port.NewInput("i1", fakeOwner("B1"), "", "")
		in2 := port.NewInput("i2", fakeOwner("B2"), "", "")
		c1, _ := port.NewConnection("c1", 1)
		c2, _ := port.NewConnection("c2", 1)
		Expect(c1.Link(out, in1)).To(Succeed())
		Expect(c2.Link(out, in2)).To(Succeed())

		ctx := context.Background()
		p := packet.NewData("fanout")
		Expect(out.SendPacket(ctx, p)).To(Succeed())

		got1, ok1, err1 := c1.Get(ctx)
		Expect(err1).NotTo(HaveOccurred())
		Expect(ok1).To(BeTrue())
		Expect(got1).To(BeIdenticalTo(p))

		got2, ok2, err2 := c2.Get(ctx)
		Expect(err2).NotTo(HaveOccurred())
		Expect(ok2).To(BeTrue())
		Expect(got2).To(BeIdenticalTo(p))
	})
})
