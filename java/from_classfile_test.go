package java

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/entitygen/classfile"
	"github.com/dhamidi/entitygen/classfile/classfiletest"
)

func TestClassModelFromClassFile(t *testing.T) {
	data := (&classfiletest.Class{
		Name:        "com/acme/Customer",
		Super:       "com/acme/Party",
		Access:      classfile.AccPublic,
		Annotations: []string{"Lcom/acme/Entity;"},
		InnerClasses: []classfile.InnerClass{
			{Inner: "com/acme/Customer$Address", Outer: "com/acme/Customer", Name: "Address", AccessFlags: classfile.AccPublic | classfile.AccStatic},
		},
		Fields: []classfiletest.Member{
			{Access: classfile.AccPrivate | classfile.AccStatic | classfile.AccFinal, Name: "serialVersionUID", Descriptor: "J"},
			{Access: classfile.AccPrivate, Name: "tags", Descriptor: "Ljava/util/List;", Signature: "Ljava/util/List<Ljava/lang/String;>;"},
			{Access: classfile.AccPrivate | classfile.AccSynthetic, Name: "this$0", Descriptor: "Lcom/acme/Outer;"},
		},
		Methods: []classfiletest.Member{
			{Access: classfile.AccStatic, Name: "<clinit>", Descriptor: "()V"},
			{Access: classfile.AccPublic, Name: "<init>", Descriptor: "()V"},
			{Access: classfile.AccPublic, Name: "getAddress", Descriptor: "()Lcom/acme/Customer$Address;"},
			{Access: classfile.AccPublic, Name: "setTags", Descriptor: "(Ljava/util/List;)V", Signature: "(Ljava/util/List<Ljava/lang/String;>;)V", ParameterNames: []string{"tags"}},
			{Access: classfile.AccPublic | classfile.AccVarargs, Name: "tag", Descriptor: "([Ljava/lang/String;)V", Exceptions: []string{"java/io/IOException"}},
			{Access: classfile.AccPublic | classfile.AccBridge | classfile.AccSynthetic, Name: "getAddress", Descriptor: "()Ljava/lang/Object;"},
		},
	}).Bytes()

	cls, err := ClassModelFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.NotNil(t, cls)

	assert.Equal(t, "com.acme.Customer", cls.Name)
	assert.Equal(t, "Customer", cls.SimpleName)
	assert.Equal(t, "com.acme", cls.Package)
	assert.Equal(t, "com.acme.Party", cls.SuperClass)
	assert.Equal(t, VisibilityPublic, cls.Visibility)
	assert.Equal(t, ClassKindClass, cls.Kind)
	assert.True(t, cls.HasAnnotation("com.acme.Entity"))

	require.Len(t, cls.Fields, 2)
	assert.True(t, cls.Fields[0].IsStatic && cls.Fields[0].IsFinal)
	assert.Equal(t, "java.util.List<java.lang.String>", cls.Field("tags").Type.String())
	assert.Nil(t, cls.Field("this$0"))

	require.Len(t, cls.Methods, 4)
	ctor := cls.Methods[0]
	assert.True(t, ctor.IsConstructor)
	assert.Equal(t, "<init>", ctor.Name)

	getters := cls.MethodsByName("getAddress")
	require.Len(t, getters, 1)
	assert.Equal(t, "com.acme.Customer.Address", getters[0].ReturnType.Name)

	setTags := cls.MethodsByName("setTags")[0]
	assert.True(t, setTags.ReturnType.IsVoid())
	require.Len(t, setTags.Parameters, 1)
	assert.Equal(t, "tags", setTags.Parameters[0].Name)
	assert.Equal(t, "java.util.List<java.lang.String>", setTags.Parameters[0].Type.String())

	tag := cls.MethodsByName("tag")[0]
	require.Len(t, tag.Parameters, 1)
	assert.Equal(t, "arg0", tag.Parameters[0].Name)
	assert.True(t, tag.Parameters[0].IsVarargs)
	assert.Equal(t, "java.lang.String[]", tag.Parameters[0].Type.String())
	assert.Equal(t, []string{"java.io.IOException"}, tag.Exceptions)
}

func TestClassModelFromNestedClassFile(t *testing.T) {
	inner := []classfile.InnerClass{
		{Inner: "com/acme/Customer$Address", Outer: "com/acme/Customer", Name: "Address", AccessFlags: classfile.AccProtected | classfile.AccStatic},
	}
	data := (&classfiletest.Class{Name: "com/acme/Customer$Address", Super: "java/lang/Object", Access: classfile.AccPublic, InnerClasses: inner}).Bytes()

	cls, err := ClassModelFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.NotNil(t, cls)
	assert.Equal(t, "com.acme.Customer.Address", cls.Name)
	assert.Equal(t, "Address", cls.SimpleName)
	assert.Equal(t, "com.acme", cls.Package)
	assert.Equal(t, "com.acme.Customer", cls.EnclosingClass)
	assert.Equal(t, VisibilityProtected, cls.Visibility)
	assert.True(t, cls.IsStatic)
	assert.Equal(t, ObjectClass, cls.SuperClass)
}

func TestClassModelFromClassFileSkipsUnnamedClasses(t *testing.T) {
	anon := (&classfiletest.Class{
		Name:         "com/acme/Customer$1",
		Super:        "java/lang/Object",
		InnerClasses: []classfile.InnerClass{{Inner: "com/acme/Customer$1"}},
	}).Bytes()
	cls, err := ClassModelFromReader(bytes.NewReader(anon))
	require.NoError(t, err)
	assert.Nil(t, cls)

	module := (&classfiletest.Class{Name: "module-info", Access: classfile.AccModule}).Bytes()
	cls, err = ClassModelFromReader(bytes.NewReader(module))
	require.NoError(t, err)
	assert.Nil(t, cls)
}

func TestClassModelFromInterfaceFile(t *testing.T) {
	data := (&classfiletest.Class{
		Name:       "com/acme/Repository",
		Super:      "java/lang/Object",
		Interfaces: []string{"java/lang/AutoCloseable"},
		Access:     classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract,
		Signature:  "<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/AutoCloseable;",
		Methods: []classfiletest.Member{
			{Access: classfile.AccPublic | classfile.AccAbstract, Name: "find", Descriptor: "(J)Ljava/lang/Object;", Signature: "(J)TT;"},
		},
	}).Bytes()

	cls, err := ClassModelFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ClassKindInterface, cls.Kind)
	assert.Empty(t, cls.SuperClass)
	assert.False(t, cls.IsAbstract)
	assert.Equal(t, []string{"java.lang.AutoCloseable"}, cls.Interfaces)
	find := cls.MethodsByName("find")[0]
	assert.True(t, find.IsAbstract)
	assert.Equal(t, "T", find.ReturnType.Name)
}

func TestClassModelFromReaderRejectsGarbage(t *testing.T) {
	_, err := ClassModelFromReader(bytes.NewReader([]byte("not a class")))
	assert.ErrorIs(t, err, classfile.ErrMalformed)
}
