// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

// TemplatesHCL is the template pack used across package tests.
//
//   - gnu.base: C compiler (.c -> .o), C++ compiler (.cpp -> .o, cc nature
//     only) and linker (.o -> .exe, target tool).
//   - gnu.base_2.0.0: newer version of gnu.base, same real identity.
//   - cross.base: a compiler sharing .c with gnu.base and an .obj -> .bin
//     packer. No converter from gnu.base exists.
//   - llvm.base: reachable from gnu.base through converter rules, with a
//     tool rule from the GNU C compiler to clang.
//   - script.base: a single tool that cannot take part in a managed build.
//   - tool.x / tool.y: standalone tools that both consume .c.
const TemplatesHCL = `
property_type "artifact.type" {
  name   = "Artifact Type"
  values = ["exe", "staticLib", "sharedLib"]
}

property_type "build.type" {
  name   = "Build Type"
  values = ["debug", "release"]
}

tool "gnu.c.compiler" {
  name    = "GCC C Compiler"
  command = "gcc"

  option "gnu.c.compiler.option.optimization" {
    name        = "Optimization Level"
    value_type  = "enumerated"
    command     = "-O"
    value       = "-O0"
    enum_values = ["-O0", "-O1", "-O2", "-O3"]
  }
  option "gnu.c.compiler.option.debug" {
    name       = "Debug Information"
    value_type = "boolean"
    command    = "-g"
    value      = false
  }
  input_type "gnu.c.compiler.input" {
    extensions = ["c"]
  }
  output_type "gnu.c.compiler.output" {
    extensions     = ["o"]
    build_variable = "OBJS"
  }
}

tool "tool.x" {
  name             = "Tool X"
  input_extensions = ["c"]
}

tool "tool.y" {
  name             = "Tool Y"
  input_extensions = ["c", "h"]
}

toolchain "gnu.base" {
  name         = "GNU"
  target_tools = ["gnu.base.linker"]
  supported_properties = {
    "artifact.type" = ["exe", "staticLib", "sharedLib"]
    "build.type"    = ["debug", "release"]
  }

  tool "gnu.base.cc" {
    super_class = "gnu.c.compiler"
  }
  tool "gnu.base.cpp" {
    name          = "GCC C++ Compiler"
    command       = "g++"
    nature_filter = "cc"
    input_type "gnu.base.cpp.input" {
      extensions = ["cpp", "cxx"]
    }
    output_type "gnu.base.cpp.output" {
      extensions     = ["o"]
      build_variable = "OBJS"
    }
  }
  tool "gnu.base.linker" {
    name    = "GCC Linker"
    command = "gcc"
    option "gnu.base.linker.option.strip" {
      value_type = "boolean"
      command    = "-s"
      value      = false
    }
    input_type "gnu.base.linker.input" {
      extensions = ["o"]
    }
    output_type "gnu.base.linker.output" {
      extensions     = ["exe"]
      build_variable = "EXECUTABLES"
    }
  }
  builder "gnu.base.builder" {
    command = "make"
  }
  target_platform "gnu.base.platform" {
    os_list   = ["linux"]
    arch_list = ["x86_64"]
  }
}

toolchain "gnu.base_2.0.0" {
  super_class = "gnu.base"
  name        = "GNU 2"
}

toolchain "cross.base" {
  name = "Cross"
  supported_properties = {
    "artifact.type" = ["staticLib"]
  }

  tool "cross.cc" {
    name    = "Cross C Compiler"
    command = "xcc"
    option "cross.cc.option.optimization" {
      value_type  = "enumerated"
      command     = "-O"
      value       = "-O1"
      enum_values = ["-O0", "-O1", "-O2", "-O3"]
    }
    input_type "cross.cc.input" {
      extensions = ["c"]
    }
    output_type "cross.cc.output" {
      extensions = ["o"]
    }
  }
  tool "cross.packer" {
    name    = "Packer"
    command = "xpack"
    input_type "cross.packer.input" {
      extensions = ["obj"]
    }
    output_type "cross.packer.output" {
      extensions     = ["bin"]
      build_variable = "IMAGES"
    }
  }
}

tool "llvm.clang" {
  name    = "Clang"
  command = "clang"
  option "llvm.clang.option.optimization" {
    value_type  = "enumerated"
    command     = "-O"
    value       = "-O0"
    enum_values = ["-O0", "-O1", "-O2", "-O3", "-Oz"]
  }
  input_type "llvm.clang.input" {
    extensions = ["c"]
  }
  output_type "llvm.clang.output" {
    extensions     = ["o"]
    build_variable = "OBJS"
  }
}

toolchain "llvm.base" {
  name         = "LLVM"
  target_tools = ["llvm.base.lld"]
  supported_properties = {
    "artifact.type" = ["exe", "sharedLib"]
  }

  tool "llvm.base.clang" {
    super_class = "llvm.clang"
  }
  tool "llvm.base.lld" {
    name    = "LLD"
    command = "ld.lld"
    input_type "llvm.base.lld.input" {
      extensions = ["o"]
    }
    output_type "llvm.base.lld.output" {
      extensions     = ["exe"]
      build_variable = "EXECUTABLES"
    }
  }
}

toolchain "script.base" {
  name = "Scripted"

  tool "script.run" {
    name                   = "Build Script"
    command                = "sh build.sh"
    supports_managed_build = false
    input_extensions       = ["sh"]
  }
}

converter "gnu-to-llvm" {
  kind    = "toolchain"
  from    = "gnu.base"
  to      = "llvm.base"
  handler = "migrate"
}

converter "gcc-to-clang" {
  kind    = "tool"
  from    = "gnu.c.compiler"
  to      = "llvm.clang"
  handler = "migrate"
}
`
